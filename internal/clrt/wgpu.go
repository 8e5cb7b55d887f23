//go:build wgpu

package clrt

import (
	"strings"

	"github.com/openfluke/webgpu/wgpu"
)

// webGPU presents WebGPU adapters through the OpenCL query surface. The
// instance is the single platform and every adapter is a device. Properties
// WebGPU has no counterpart for answer InvalidValue
type webGPU struct {
	instance *wgpu.Instance
	adapters []*wgpu.Adapter
	contexts map[Context]*wgpu.Device
	next     Context
}

func init() {
	Register("wgpu", func(OpenConfig) (Runtime, error) {
		inst := wgpu.CreateInstance(nil)
		if inst == nil {
			return nil, OutOfResources
		}
		return &webGPU{
			instance: inst,
			adapters: inst.EnumerateAdapters(nil),
			contexts: make(map[Context]*wgpu.Device),
		}, nil
	})
}

const wgpuPlatform PlatformID = 1

func (w *webGPU) NumPlatforms() (uint32, error) {
	return 1, nil
}

func (w *webGPU) Platforms(n uint32) ([]PlatformID, error) {
	if n == 0 {
		return nil, nil
	}
	return []PlatformID{wgpuPlatform}, nil
}

func (w *webGPU) NumDevices(p PlatformID, t DeviceType) (uint32, error) {
	ids, err := w.Devices(p, t, uint32(len(w.adapters)))
	return uint32(len(ids)), err
}

func (w *webGPU) Devices(p PlatformID, t DeviceType, n uint32) ([]DeviceID, error) {
	if p != wgpuPlatform {
		return nil, InvalidValue
	}
	var ids []DeviceID
	for i, a := range w.adapters {
		if uint32(len(ids)) == n {
			break
		}
		if t == DeviceTypeAll || adapterType(a)&t != 0 {
			ids = append(ids, DeviceID(i+1))
		}
	}
	if len(ids) == 0 {
		return nil, DeviceNotFound
	}
	return ids, nil
}

func adapterType(a *wgpu.Adapter) DeviceType {
	switch kind := a.GetInfo().AdapterType.String(); {
	case kind == "cpu":
		return DeviceTypeCPU
	case strings.Contains(kind, "gpu"):
		return DeviceTypeGPU
	}
	return DeviceTypeDefault
}

func putString(buf []byte, s string) int {
	raw := append([]byte(s), 0)
	copy(buf, raw)
	return len(raw)
}

func putUint(buf []byte, v uint64) int {
	var raw [8]byte
	NativeEndian.PutUint64(raw[:], v)
	copy(buf, raw[:])
	return len(raw)
}

func putSizes(buf []byte, vs ...uint64) int {
	raw := make([]byte, len(vs)*SizeT)
	for i, v := range vs {
		if SizeT == 4 {
			NativeEndian.PutUint32(raw[i*SizeT:], uint32(v))
		} else {
			NativeEndian.PutUint64(raw[i*SizeT:], v)
		}
	}
	copy(buf, raw)
	return len(raw)
}

func (w *webGPU) PlatformInfo(p PlatformID, param PlatformInfo, buf []byte) (int, error) {
	if p != wgpuPlatform {
		return 0, InvalidValue
	}
	switch param {
	case PlatformName:
		return putString(buf, "WebGPU"), nil
	case PlatformVendor:
		return putString(buf, "wgpu-native"), nil
	case PlatformVersion:
		return putString(buf, "WebGPU 1.0"), nil
	case PlatformExtensions:
		return putString(buf, ""), nil
	}
	return 0, InvalidValue
}

func (w *webGPU) adapter(d DeviceID) (*wgpu.Adapter, error) {
	if d == 0 || int(d) > len(w.adapters) {
		return nil, InvalidValue
	}
	return w.adapters[d-1], nil
}

func (w *webGPU) DeviceInfo(d DeviceID, param DeviceInfo, buf []byte) (int, error) {
	a, err := w.adapter(d)
	if err != nil {
		return 0, err
	}
	info := a.GetInfo()
	limits := a.GetLimits().Limits

	switch param {
	case DeviceTypeInfo:
		return putUint(buf, uint64(adapterType(a))), nil
	case DeviceName:
		return putString(buf, strings.TrimSpace(info.Name)), nil
	case DeviceVendor:
		return putString(buf, info.VendorName), nil
	case DriverVersion:
		return putString(buf, strings.TrimSpace(info.DriverDescription)), nil
	case DeviceVersion:
		return putString(buf, "WebGPU "+info.BackendType.String()), nil
	case DeviceExtensions:
		var names []string
		for _, f := range a.EnumerateFeatures() {
			names = append(names, f.String())
		}
		return putString(buf, strings.Join(names, " ")), nil
	case DeviceVendorID:
		return putUint(buf, uint64(info.VendorId)), nil
	case DeviceMaxWorkItemDimensions:
		return putUint(buf, 3), nil
	case DeviceMaxWorkGroupSize:
		return putUint(buf, uint64(limits.MaxComputeInvocationsPerWorkgroup)), nil
	case DeviceMaxWorkItemSizes:
		return putSizes(buf,
			uint64(limits.MaxComputeWorkgroupSizeX),
			uint64(limits.MaxComputeWorkgroupSizeY),
			uint64(limits.MaxComputeWorkgroupSizeZ)), nil
	case DeviceMaxMemAllocSize:
		return putUint(buf, limits.MaxBufferSize), nil
	case DeviceGlobalMemSize:
		return putUint(buf, limits.MaxStorageBufferBindingSize), nil
	case DeviceLocalMemSize:
		return putUint(buf, uint64(limits.MaxComputeWorkgroupStorageSize)), nil
	case DeviceMaxConstantBufferSize:
		return putUint(buf, uint64(limits.MaxUniformBufferBindingSize)), nil
	case DeviceAvailable, DeviceCompilerAvailable:
		return putUint(buf, 1), nil
	case DeviceExecutionCapabilities:
		return putUint(buf, ExecKernel), nil
	}
	return 0, InvalidValue
}

// CreateContext requests a logical device on the adapter, the closest
// WebGPU analogue of a single-device context
func (w *webGPU) CreateContext(devices ...DeviceID) (Context, error) {
	if len(devices) != 1 {
		return 0, InvalidValue
	}
	a, err := w.adapter(devices[0])
	if err != nil {
		return 0, err
	}
	dev, err := a.RequestDevice(nil)
	if err != nil {
		return 0, DeviceNotAvailable
	}
	w.next++
	w.contexts[w.next] = dev
	return w.next, nil
}

func (w *webGPU) SupportedImageFormats(ctx Context, flags MemFlags, t MemObjectType, out []ImageFormat) (uint32, error) {
	if _, ok := w.contexts[ctx]; !ok {
		return 0, InvalidValue
	}
	return 0, ImageFormatNotSupported
}

func (w *webGPU) ReleaseContext(ctx Context) error {
	dev, ok := w.contexts[ctx]
	if !ok {
		return InvalidValue
	}
	delete(w.contexts, ctx)
	dev.Release()
	return nil
}

func (w *webGPU) Close() error {
	for ctx := range w.contexts {
		w.ReleaseContext(ctx)
	}
	for _, a := range w.adapters {
		a.Release()
	}
	w.instance.Release()
	return nil
}

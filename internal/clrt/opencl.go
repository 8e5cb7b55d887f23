//go:build cgo && opencl

package clrt

/*
#cgo CFLAGS: -DCL_TARGET_OPENCL_VERSION=120 -DCL_USE_DEPRECATED_OPENCL_1_2_APIS
#cgo darwin LDFLAGS: -framework OpenCL
#cgo !darwin LDFLAGS: -lOpenCL
#ifdef __APPLE__
#include <OpenCL/opencl.h>
#else
#include <CL/cl.h>
#endif
*/
import "C"

import (
	"unsafe"
)

// openCL binds the system OpenCL ICD loader. Native handles stay on the C
// side; callers only ever see small integer IDs
type openCL struct {
	platforms   []C.cl_platform_id
	platformIDs map[C.cl_platform_id]PlatformID
	devices     []C.cl_device_id
	deviceIDs   map[C.cl_device_id]DeviceID
	contexts    map[Context]C.cl_context
	nextContext Context
}

func init() {
	Register("opencl", func(OpenConfig) (Runtime, error) {
		return newOpenCL(), nil
	})
}

func newOpenCL() *openCL {
	return &openCL{
		platformIDs: make(map[C.cl_platform_id]PlatformID),
		deviceIDs:   make(map[C.cl_device_id]DeviceID),
		contexts:    make(map[Context]C.cl_context),
	}
}

func (o *openCL) platformID(p C.cl_platform_id) PlatformID {
	if id, ok := o.platformIDs[p]; ok {
		return id
	}
	o.platforms = append(o.platforms, p)
	id := PlatformID(len(o.platforms))
	o.platformIDs[p] = id
	return id
}

func (o *openCL) deviceID(d C.cl_device_id) DeviceID {
	if id, ok := o.deviceIDs[d]; ok {
		return id
	}
	o.devices = append(o.devices, d)
	id := DeviceID(len(o.devices))
	o.deviceIDs[d] = id
	return id
}

func (o *openCL) platform(p PlatformID) (C.cl_platform_id, error) {
	if p == 0 || int(p) > len(o.platforms) {
		return nil, InvalidValue
	}
	return o.platforms[p-1], nil
}

func (o *openCL) device(d DeviceID) (C.cl_device_id, error) {
	if d == 0 || int(d) > len(o.devices) {
		return nil, InvalidValue
	}
	return o.devices[d-1], nil
}

func status(code C.cl_int) error {
	return Check(Status(code))
}

func bufPtr(buf []byte) unsafe.Pointer {
	if len(buf) == 0 {
		return nil
	}
	return unsafe.Pointer(&buf[0])
}

func (o *openCL) NumPlatforms() (uint32, error) {
	var n C.cl_uint
	if err := status(C.clGetPlatformIDs(0, nil, &n)); err != nil {
		return 0, err
	}
	return uint32(n), nil
}

func (o *openCL) Platforms(n uint32) ([]PlatformID, error) {
	if n == 0 {
		return nil, nil
	}
	raw := make([]C.cl_platform_id, n)
	var got C.cl_uint
	if err := status(C.clGetPlatformIDs(C.cl_uint(n), &raw[0], &got)); err != nil {
		return nil, err
	}
	if uint32(got) < n {
		raw = raw[:got]
	}
	ids := make([]PlatformID, len(raw))
	for i, p := range raw {
		ids[i] = o.platformID(p)
	}
	return ids, nil
}

func (o *openCL) NumDevices(p PlatformID, t DeviceType) (uint32, error) {
	cp, err := o.platform(p)
	if err != nil {
		return 0, err
	}
	var n C.cl_uint
	if err := status(C.clGetDeviceIDs(cp, C.cl_device_type(t), 0, nil, &n)); err != nil {
		return 0, err
	}
	return uint32(n), nil
}

func (o *openCL) Devices(p PlatformID, t DeviceType, n uint32) ([]DeviceID, error) {
	cp, err := o.platform(p)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	raw := make([]C.cl_device_id, n)
	var got C.cl_uint
	if err := status(C.clGetDeviceIDs(cp, C.cl_device_type(t), C.cl_uint(n), &raw[0], &got)); err != nil {
		return nil, err
	}
	if uint32(got) < n {
		raw = raw[:got]
	}
	ids := make([]DeviceID, len(raw))
	for i, d := range raw {
		ids[i] = o.deviceID(d)
	}
	return ids, nil
}

func (o *openCL) PlatformInfo(p PlatformID, param PlatformInfo, buf []byte) (int, error) {
	cp, err := o.platform(p)
	if err != nil {
		return 0, err
	}
	var size C.size_t
	code := C.clGetPlatformInfo(cp, C.cl_platform_info(param), C.size_t(len(buf)), bufPtr(buf), &size)
	if err := status(code); err != nil {
		return 0, err
	}
	return int(size), nil
}

func (o *openCL) DeviceInfo(d DeviceID, param DeviceInfo, buf []byte) (int, error) {
	cd, err := o.device(d)
	if err != nil {
		return 0, err
	}
	var size C.size_t
	code := C.clGetDeviceInfo(cd, C.cl_device_info(param), C.size_t(len(buf)), bufPtr(buf), &size)
	if err := status(code); err != nil {
		return 0, err
	}
	return int(size), nil
}

func (o *openCL) CreateContext(devices ...DeviceID) (Context, error) {
	if len(devices) == 0 {
		return 0, InvalidValue
	}
	raw := make([]C.cl_device_id, len(devices))
	for i, d := range devices {
		cd, err := o.device(d)
		if err != nil {
			return 0, err
		}
		raw[i] = cd
	}
	var code C.cl_int
	ctx := C.clCreateContext(nil, C.cl_uint(len(raw)), &raw[0], nil, nil, &code)
	if err := status(code); err != nil {
		return 0, err
	}
	o.nextContext++
	o.contexts[o.nextContext] = ctx
	return o.nextContext, nil
}

func (o *openCL) SupportedImageFormats(ctx Context, flags MemFlags, t MemObjectType, out []ImageFormat) (uint32, error) {
	cc, ok := o.contexts[ctx]
	if !ok {
		return 0, InvalidValue
	}
	var n C.cl_uint
	if out == nil {
		code := C.clGetSupportedImageFormats(cc, C.cl_mem_flags(flags), C.cl_mem_object_type(t), 0, nil, &n)
		if err := status(code); err != nil {
			return 0, err
		}
		return uint32(n), nil
	}

	raw := make([]C.cl_image_format, len(out))
	var first *C.cl_image_format
	if len(raw) > 0 {
		first = &raw[0]
	}
	code := C.clGetSupportedImageFormats(cc, C.cl_mem_flags(flags), C.cl_mem_object_type(t), C.cl_uint(len(raw)), first, &n)
	if err := status(code); err != nil {
		return 0, err
	}
	for i := range raw {
		out[i] = ImageFormat{
			Order: ChannelOrder(raw[i].image_channel_order),
			Type:  ChannelType(raw[i].image_channel_data_type),
		}
	}
	return uint32(n), nil
}

func (o *openCL) ReleaseContext(ctx Context) error {
	cc, ok := o.contexts[ctx]
	if !ok {
		return InvalidValue
	}
	delete(o.contexts, ctx)
	return status(C.clReleaseContext(cc))
}

func (o *openCL) Close() error {
	var first error
	for ctx := range o.contexts {
		if err := o.ReleaseContext(ctx); err != nil && first == nil {
			first = err
		}
	}
	return first
}

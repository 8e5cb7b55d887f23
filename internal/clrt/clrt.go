// Package clrt describes the compute runtime query surface clinfo reports on.
// It mirrors the handful of OpenCL entry points the report needs and carries
// the numeric identifiers shared by every backend
package clrt

import (
	"encoding/binary"
	"strconv"
)

// PlatformID is an opaque platform handle issued by a Runtime
type PlatformID uintptr

// DeviceID is an opaque device handle issued by a Runtime
type DeviceID uintptr

// Context is an opaque execution context handle issued by a Runtime
type Context uintptr

// PlatformInfo selects a platform property (cl_platform_info)
type PlatformInfo uint32

// DeviceInfo selects a device property (cl_device_info)
type DeviceInfo uint32

// DeviceType is a cl_device_type bitmask
type DeviceType uint64

// MemFlags is a cl_mem_flags bitmask
type MemFlags uint64

// MemObjectType is a cl_mem_object_type
type MemObjectType uint32

// ChannelOrder is a cl_channel_order
type ChannelOrder uint32

// ChannelType is a cl_channel_type
type ChannelType uint32

// ImageFormat is one supported (channel order, channel type) pair
type ImageFormat struct {
	Order ChannelOrder
	Type  ChannelType
}

// SizeT is the width in bytes of the runtime's size_t
const SizeT = strconv.IntSize / 8

// NativeEndian is the byte order the runtime writes scalar properties in
var NativeEndian = binary.NativeEndian

// Runtime is the query surface of a compute platform. Every call is
// synchronous. Failures are reported as Status values.
//
// The info calls write at most len(buf) bytes into buf and return the size
// the runtime actually holds for the property, which may be larger than buf
type Runtime interface {
	NumPlatforms() (uint32, error)
	Platforms(n uint32) ([]PlatformID, error)
	NumDevices(p PlatformID, t DeviceType) (uint32, error)
	Devices(p PlatformID, t DeviceType, n uint32) ([]DeviceID, error)
	PlatformInfo(p PlatformID, param PlatformInfo, buf []byte) (int, error)
	DeviceInfo(d DeviceID, param DeviceInfo, buf []byte) (int, error)
	CreateContext(devices ...DeviceID) (Context, error)
	// SupportedImageFormats fills out and returns the total number of
	// formats supported. A nil out only queries the count
	SupportedImageFormats(ctx Context, flags MemFlags, t MemObjectType, out []ImageFormat) (uint32, error)
	ReleaseContext(ctx Context) error
	Close() error
}

// Platform properties
const (
	PlatformProfile    PlatformInfo = 0x0900
	PlatformVersion    PlatformInfo = 0x0901
	PlatformName       PlatformInfo = 0x0902
	PlatformVendor     PlatformInfo = 0x0903
	PlatformExtensions PlatformInfo = 0x0904
)

// Device properties
const (
	DeviceTypeInfo                  DeviceInfo = 0x1000
	DeviceVendorID                  DeviceInfo = 0x1001
	DeviceMaxComputeUnits           DeviceInfo = 0x1002
	DeviceMaxWorkItemDimensions     DeviceInfo = 0x1003
	DeviceMaxWorkGroupSize          DeviceInfo = 0x1004
	DeviceMaxWorkItemSizes          DeviceInfo = 0x1005
	DevicePreferredVectorWidthChar  DeviceInfo = 0x1006
	DevicePreferredVectorWidthShort DeviceInfo = 0x1007
	DevicePreferredVectorWidthInt   DeviceInfo = 0x1008
	DevicePreferredVectorWidthLong  DeviceInfo = 0x1009
	DevicePreferredVectorWidthFloat DeviceInfo = 0x100A
	DevicePreferredVectorWidthDbl   DeviceInfo = 0x100B
	DeviceMaxClockFrequency         DeviceInfo = 0x100C
	DeviceAddressBits               DeviceInfo = 0x100D
	DeviceMaxReadImageArgs          DeviceInfo = 0x100E
	DeviceMaxWriteImageArgs         DeviceInfo = 0x100F
	DeviceMaxMemAllocSize           DeviceInfo = 0x1010
	DeviceImage2DMaxWidth           DeviceInfo = 0x1011
	DeviceImage2DMaxHeight          DeviceInfo = 0x1012
	DeviceImage3DMaxWidth           DeviceInfo = 0x1013
	DeviceImage3DMaxHeight          DeviceInfo = 0x1014
	DeviceImage3DMaxDepth           DeviceInfo = 0x1015
	DeviceImageSupport              DeviceInfo = 0x1016
	DeviceMaxParameterSize          DeviceInfo = 0x1017
	DeviceMaxSamplers               DeviceInfo = 0x1018
	DeviceMemBaseAddrAlign          DeviceInfo = 0x1019
	DeviceMinDataTypeAlignSize      DeviceInfo = 0x101A
	DeviceSingleFPConfig            DeviceInfo = 0x101B
	DeviceGlobalMemCacheType        DeviceInfo = 0x101C
	DeviceGlobalMemCachelineSize    DeviceInfo = 0x101D
	DeviceGlobalMemCacheSize        DeviceInfo = 0x101E
	DeviceGlobalMemSize             DeviceInfo = 0x101F
	DeviceMaxConstantBufferSize     DeviceInfo = 0x1020
	DeviceMaxConstantArgs           DeviceInfo = 0x1021
	DeviceLocalMemType              DeviceInfo = 0x1022
	DeviceLocalMemSize              DeviceInfo = 0x1023
	DeviceErrorCorrectionSupport    DeviceInfo = 0x1024
	DeviceProfilingTimerResolution  DeviceInfo = 0x1025
	DeviceEndianLittle              DeviceInfo = 0x1026
	DeviceAvailable                 DeviceInfo = 0x1027
	DeviceCompilerAvailable         DeviceInfo = 0x1028
	DeviceExecutionCapabilities     DeviceInfo = 0x1029
	DeviceQueueProperties           DeviceInfo = 0x102A
	DeviceName                      DeviceInfo = 0x102B
	DeviceVendor                    DeviceInfo = 0x102C
	DriverVersion                   DeviceInfo = 0x102D
	DeviceProfile                   DeviceInfo = 0x102E
	DeviceVersion                   DeviceInfo = 0x102F
	DeviceExtensions                DeviceInfo = 0x1030
)

// Device categories
const (
	DeviceTypeDefault     DeviceType = 1 << 0
	DeviceTypeCPU         DeviceType = 1 << 1
	DeviceTypeGPU         DeviceType = 1 << 2
	DeviceTypeAccelerator DeviceType = 1 << 3
	DeviceTypeCustom      DeviceType = 1 << 4
	DeviceTypeAll         DeviceType = 0xFFFFFFFF
)

// Execution capabilities
const (
	ExecKernel       uint64 = 1 << 0
	ExecNativeKernel uint64 = 1 << 1
)

// Memory access flags
const (
	MemReadWrite MemFlags = 1 << 0
	MemWriteOnly MemFlags = 1 << 1
	MemReadOnly  MemFlags = 1 << 2
)

// Image object kinds
const (
	MemObjectImage2D MemObjectType = 0x10F1
	MemObjectImage3D MemObjectType = 0x10F2
)

// Channel orders
const (
	ChannelR            ChannelOrder = 0x10B0
	ChannelA            ChannelOrder = 0x10B1
	ChannelRG           ChannelOrder = 0x10B2
	ChannelRA           ChannelOrder = 0x10B3
	ChannelRGB          ChannelOrder = 0x10B4
	ChannelRGBA         ChannelOrder = 0x10B5
	ChannelBGRA         ChannelOrder = 0x10B6
	ChannelARGB         ChannelOrder = 0x10B7
	ChannelIntensity    ChannelOrder = 0x10B8
	ChannelLuminance    ChannelOrder = 0x10B9
	ChannelRx           ChannelOrder = 0x10BA
	ChannelRGx          ChannelOrder = 0x10BB
	ChannelRGBx         ChannelOrder = 0x10BC
	ChannelDepth        ChannelOrder = 0x10BD
	ChannelDepthStencil ChannelOrder = 0x10BE
)

// Channel data types
const (
	SnormInt8      ChannelType = 0x10D0
	SnormInt16     ChannelType = 0x10D1
	UnormInt8      ChannelType = 0x10D2
	UnormInt16     ChannelType = 0x10D3
	UnormShort565  ChannelType = 0x10D4
	UnormShort555  ChannelType = 0x10D5
	UnormInt101010 ChannelType = 0x10D6
	SignedInt8     ChannelType = 0x10D7
	SignedInt16    ChannelType = 0x10D8
	SignedInt32    ChannelType = 0x10D9
	UnsignedInt8   ChannelType = 0x10DA
	UnsignedInt16  ChannelType = 0x10DB
	UnsignedInt32  ChannelType = 0x10DC
	HalfFloat      ChannelType = 0x10DD
	Float          ChannelType = 0x10DE
	UnormInt24     ChannelType = 0x10DF
)

// PlatformInfoByName maps the OpenCL symbol of each platform property
var PlatformInfoByName = map[string]PlatformInfo{
	"CL_PLATFORM_PROFILE":    PlatformProfile,
	"CL_PLATFORM_VERSION":    PlatformVersion,
	"CL_PLATFORM_NAME":       PlatformName,
	"CL_PLATFORM_VENDOR":     PlatformVendor,
	"CL_PLATFORM_EXTENSIONS": PlatformExtensions,
}

// DeviceInfoByName maps the OpenCL symbol of each device property
var DeviceInfoByName = map[string]DeviceInfo{
	"CL_DEVICE_TYPE":                          DeviceTypeInfo,
	"CL_DEVICE_VENDOR_ID":                     DeviceVendorID,
	"CL_DEVICE_MAX_COMPUTE_UNITS":             DeviceMaxComputeUnits,
	"CL_DEVICE_MAX_WORK_ITEM_DIMENSIONS":      DeviceMaxWorkItemDimensions,
	"CL_DEVICE_MAX_WORK_GROUP_SIZE":           DeviceMaxWorkGroupSize,
	"CL_DEVICE_MAX_WORK_ITEM_SIZES":           DeviceMaxWorkItemSizes,
	"CL_DEVICE_PREFERRED_VECTOR_WIDTH_CHAR":   DevicePreferredVectorWidthChar,
	"CL_DEVICE_PREFERRED_VECTOR_WIDTH_SHORT":  DevicePreferredVectorWidthShort,
	"CL_DEVICE_PREFERRED_VECTOR_WIDTH_INT":    DevicePreferredVectorWidthInt,
	"CL_DEVICE_PREFERRED_VECTOR_WIDTH_LONG":   DevicePreferredVectorWidthLong,
	"CL_DEVICE_PREFERRED_VECTOR_WIDTH_FLOAT":  DevicePreferredVectorWidthFloat,
	"CL_DEVICE_PREFERRED_VECTOR_WIDTH_DOUBLE": DevicePreferredVectorWidthDbl,
	"CL_DEVICE_MAX_CLOCK_FREQUENCY":           DeviceMaxClockFrequency,
	"CL_DEVICE_ADDRESS_BITS":                  DeviceAddressBits,
	"CL_DEVICE_MAX_READ_IMAGE_ARGS":           DeviceMaxReadImageArgs,
	"CL_DEVICE_MAX_WRITE_IMAGE_ARGS":          DeviceMaxWriteImageArgs,
	"CL_DEVICE_MAX_MEM_ALLOC_SIZE":            DeviceMaxMemAllocSize,
	"CL_DEVICE_IMAGE2D_MAX_WIDTH":             DeviceImage2DMaxWidth,
	"CL_DEVICE_IMAGE2D_MAX_HEIGHT":            DeviceImage2DMaxHeight,
	"CL_DEVICE_IMAGE3D_MAX_WIDTH":             DeviceImage3DMaxWidth,
	"CL_DEVICE_IMAGE3D_MAX_HEIGHT":            DeviceImage3DMaxHeight,
	"CL_DEVICE_IMAGE3D_MAX_DEPTH":             DeviceImage3DMaxDepth,
	"CL_DEVICE_IMAGE_SUPPORT":                 DeviceImageSupport,
	"CL_DEVICE_MAX_PARAMETER_SIZE":            DeviceMaxParameterSize,
	"CL_DEVICE_MAX_SAMPLERS":                  DeviceMaxSamplers,
	"CL_DEVICE_MEM_BASE_ADDR_ALIGN":           DeviceMemBaseAddrAlign,
	"CL_DEVICE_MIN_DATA_TYPE_ALIGN_SIZE":      DeviceMinDataTypeAlignSize,
	"CL_DEVICE_SINGLE_FP_CONFIG":              DeviceSingleFPConfig,
	"CL_DEVICE_GLOBAL_MEM_CACHE_TYPE":         DeviceGlobalMemCacheType,
	"CL_DEVICE_GLOBAL_MEM_CACHELINE_SIZE":     DeviceGlobalMemCachelineSize,
	"CL_DEVICE_GLOBAL_MEM_CACHE_SIZE":         DeviceGlobalMemCacheSize,
	"CL_DEVICE_GLOBAL_MEM_SIZE":               DeviceGlobalMemSize,
	"CL_DEVICE_MAX_CONSTANT_BUFFER_SIZE":      DeviceMaxConstantBufferSize,
	"CL_DEVICE_MAX_CONSTANT_ARGS":             DeviceMaxConstantArgs,
	"CL_DEVICE_LOCAL_MEM_TYPE":                DeviceLocalMemType,
	"CL_DEVICE_LOCAL_MEM_SIZE":                DeviceLocalMemSize,
	"CL_DEVICE_ERROR_CORRECTION_SUPPORT":      DeviceErrorCorrectionSupport,
	"CL_DEVICE_PROFILING_TIMER_RESOLUTION":    DeviceProfilingTimerResolution,
	"CL_DEVICE_ENDIAN_LITTLE":                 DeviceEndianLittle,
	"CL_DEVICE_AVAILABLE":                     DeviceAvailable,
	"CL_DEVICE_COMPILER_AVAILABLE":            DeviceCompilerAvailable,
	"CL_DEVICE_EXECUTION_CAPABILITIES":        DeviceExecutionCapabilities,
	"CL_DEVICE_QUEUE_PROPERTIES":              DeviceQueueProperties,
	"CL_DEVICE_NAME":                          DeviceName,
	"CL_DEVICE_VENDOR":                        DeviceVendor,
	"CL_DRIVER_VERSION":                       DriverVersion,
	"CL_DEVICE_PROFILE":                       DeviceProfile,
	"CL_DEVICE_VERSION":                       DeviceVersion,
	"CL_DEVICE_EXTENSIONS":                    DeviceExtensions,
}

// ChannelOrderByName maps channel order symbols to their codes
var ChannelOrderByName = map[string]ChannelOrder{
	"CL_R":             ChannelR,
	"CL_A":             ChannelA,
	"CL_RG":            ChannelRG,
	"CL_RA":            ChannelRA,
	"CL_RGB":           ChannelRGB,
	"CL_RGBA":          ChannelRGBA,
	"CL_BGRA":          ChannelBGRA,
	"CL_ARGB":          ChannelARGB,
	"CL_INTENSITY":     ChannelIntensity,
	"CL_LUMINANCE":     ChannelLuminance,
	"CL_Rx":            ChannelRx,
	"CL_RGx":           ChannelRGx,
	"CL_RGBx":          ChannelRGBx,
	"CL_DEPTH":         ChannelDepth,
	"CL_DEPTH_STENCIL": ChannelDepthStencil,
}

// ChannelTypeByName maps channel data type symbols to their codes
var ChannelTypeByName = map[string]ChannelType{
	"CL_SNORM_INT8":       SnormInt8,
	"CL_SNORM_INT16":      SnormInt16,
	"CL_UNORM_INT8":       UnormInt8,
	"CL_UNORM_INT16":      UnormInt16,
	"CL_UNORM_SHORT_565":  UnormShort565,
	"CL_UNORM_SHORT_555":  UnormShort555,
	"CL_UNORM_INT_101010": UnormInt101010,
	"CL_SIGNED_INT8":      SignedInt8,
	"CL_SIGNED_INT16":     SignedInt16,
	"CL_SIGNED_INT32":     SignedInt32,
	"CL_UNSIGNED_INT8":    UnsignedInt8,
	"CL_UNSIGNED_INT16":   UnsignedInt16,
	"CL_UNSIGNED_INT32":   UnsignedInt32,
	"CL_HALF_FLOAT":       HalfFloat,
	"CL_FLOAT":            Float,
	"CL_UNORM_INT24":      UnormInt24,
}

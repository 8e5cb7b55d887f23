package report

import "github.com/wattfource/clinfo/internal/clrt"

// Kind selects how a property value is decoded and rendered
type Kind int

const (
	// KindString is NUL terminated text
	KindString Kind = iota
	// KindWords is a whitespace separated list rendered one word per line
	KindWords
	// KindLong is an unsigned integer rendered with thousands grouping
	KindLong
	// KindHex is an unsigned integer rendered as 0x-prefixed hex
	KindHex
	// KindFlags is a bitmask rendered as flag names
	KindFlags
	// KindSizeArray is a fixed-length size_t array
	KindSizeArray
	// KindIndexed is a small integer naming an entry of a lookup table
	KindIndexed
)

// Flag names one bit of a bitmask property
type Flag struct {
	Bit  uint64
	Name string
}

// Descriptor pairs a runtime property with its display name and kind
type Descriptor struct {
	Param uint32
	Name  string
	Kind  Kind

	// Flags lists the known bits of a KindFlags property in test order
	Flags []Flag
	// Names is the lookup table of a KindIndexed property
	Names []string
	// Count is the element count of a KindSizeArray property
	Count int
	// Sorted sorts a KindWords list before rendering
	Sorted bool
	// Capacity overrides the query buffer size for this property
	Capacity int
}

// Table is the ordered property set of one entity kind. Width is the column
// the display names are padded to
type Table struct {
	Width int
	Props []Descriptor
}

const (
	// StringCapacity bounds the buffer used for text properties
	StringCapacity = 65536
	// scalarCapacity holds any integer property
	scalarCapacity = 8
)

func (d Descriptor) capacity(stringCap int) int {
	if d.Capacity > 0 {
		return d.Capacity
	}
	switch d.Kind {
	case KindString, KindWords:
		if stringCap > 0 {
			return stringCap
		}
		return StringCapacity
	case KindSizeArray:
		return d.Count * clrt.SizeT
	}
	return scalarCapacity
}

var deviceTypeFlags = []Flag{
	{uint64(clrt.DeviceTypeDefault), "Default"},
	{uint64(clrt.DeviceTypeCPU), "CPU"},
	{uint64(clrt.DeviceTypeGPU), "GPU"},
	{uint64(clrt.DeviceTypeAccelerator), "Accelerator"},
	{uint64(clrt.DeviceTypeCustom), "Custom"},
}

var execCapabilityFlags = []Flag{
	{clrt.ExecKernel, "Kernel"},
	{clrt.ExecNativeKernel, "Native"},
}

var (
	cacheTypeNames = []string{"None", "Read-Only", "Read-Write"}
	localMemNames  = []string{"???", "Local", "Global"}
)

func platformProp(p clrt.PlatformInfo, name string, kind Kind) Descriptor {
	return Descriptor{Param: uint32(p), Name: name, Kind: kind}
}

func deviceProp(p clrt.DeviceInfo, name string, kind Kind) Descriptor {
	return Descriptor{Param: uint32(p), Name: name, Kind: kind}
}

func deviceLong(p clrt.DeviceInfo, name string) Descriptor {
	return deviceProp(p, name, KindLong)
}

// PlatformTable is the property set printed for every platform
var PlatformTable = Table{
	Width: 10,
	Props: []Descriptor{
		platformProp(clrt.PlatformProfile, "profile", KindString),
		platformProp(clrt.PlatformVersion, "version", KindString),
		platformProp(clrt.PlatformName, "name", KindString),
		platformProp(clrt.PlatformVendor, "vendor", KindString),
		platformProp(clrt.PlatformExtensions, "extensions", KindWords),
	},
}

// DeviceTable is the property set printed for every device
var DeviceTable = Table{
	Width: 30,
	Props: []Descriptor{
		{Param: uint32(clrt.DeviceTypeInfo), Name: "TYPE", Kind: KindFlags, Flags: deviceTypeFlags},
		deviceProp(clrt.DeviceName, "NAME", KindString),
		deviceProp(clrt.DeviceVendor, "VENDOR", KindString),
		deviceProp(clrt.DeviceProfile, "PROFILE", KindString),
		deviceProp(clrt.DeviceVersion, "VERSION", KindString),
		deviceProp(clrt.DriverVersion, "DRIVER_VERSION", KindString),
		{Param: uint32(clrt.DeviceExtensions), Name: "EXTENSIONS", Kind: KindWords, Sorted: true},
		{Param: uint32(clrt.DeviceExecutionCapabilities), Name: "EXECUTION_CAPABILITIES", Kind: KindFlags, Flags: execCapabilityFlags},
		{Param: uint32(clrt.DeviceGlobalMemCacheType), Name: "GLOBAL_MEM_CACHE_TYPE", Kind: KindIndexed, Names: cacheTypeNames},
		{Param: uint32(clrt.DeviceLocalMemType), Name: "LOCAL_MEM_TYPE", Kind: KindIndexed, Names: localMemNames},
		deviceProp(clrt.DeviceSingleFPConfig, "SINGLE_FP_CONFIG", KindHex),
		deviceProp(clrt.DeviceQueueProperties, "QUEUE_PROPERTIES", KindHex),
		deviceLong(clrt.DeviceVendorID, "VENDOR_ID"),
		deviceLong(clrt.DeviceMaxComputeUnits, "MAX_COMPUTE_UNITS"),
		deviceLong(clrt.DeviceMaxWorkItemDimensions, "MAX_WORK_ITEM_DIMENSIONS"),
		deviceLong(clrt.DeviceMaxWorkGroupSize, "MAX_WORK_GROUP_SIZE"),
		deviceLong(clrt.DevicePreferredVectorWidthChar, "PREFERRED_VECTOR_WIDTH_CHAR"),
		deviceLong(clrt.DevicePreferredVectorWidthShort, "PREFERRED_VECTOR_WIDTH_SHORT"),
		deviceLong(clrt.DevicePreferredVectorWidthInt, "PREFERRED_VECTOR_WIDTH_INT"),
		deviceLong(clrt.DevicePreferredVectorWidthLong, "PREFERRED_VECTOR_WIDTH_LONG"),
		deviceLong(clrt.DevicePreferredVectorWidthFloat, "PREFERRED_VECTOR_WIDTH_FLOAT"),
		deviceLong(clrt.DevicePreferredVectorWidthDbl, "PREFERRED_VECTOR_WIDTH_DOUBLE"),
		deviceLong(clrt.DeviceMaxClockFrequency, "MAX_CLOCK_FREQUENCY"),
		deviceLong(clrt.DeviceAddressBits, "ADDRESS_BITS"),
		deviceLong(clrt.DeviceMaxMemAllocSize, "MAX_MEM_ALLOC_SIZE"),
		deviceLong(clrt.DeviceImageSupport, "IMAGE_SUPPORT"),
		deviceLong(clrt.DeviceMaxReadImageArgs, "MAX_READ_IMAGE_ARGS"),
		deviceLong(clrt.DeviceMaxWriteImageArgs, "MAX_WRITE_IMAGE_ARGS"),
		deviceLong(clrt.DeviceImage2DMaxWidth, "IMAGE2D_MAX_WIDTH"),
		deviceLong(clrt.DeviceImage2DMaxHeight, "IMAGE2D_MAX_HEIGHT"),
		deviceLong(clrt.DeviceImage3DMaxWidth, "IMAGE3D_MAX_WIDTH"),
		deviceLong(clrt.DeviceImage3DMaxHeight, "IMAGE3D_MAX_HEIGHT"),
		deviceLong(clrt.DeviceImage3DMaxDepth, "IMAGE3D_MAX_DEPTH"),
		deviceLong(clrt.DeviceMaxSamplers, "MAX_SAMPLERS"),
		deviceLong(clrt.DeviceMaxParameterSize, "MAX_PARAMETER_SIZE"),
		deviceLong(clrt.DeviceMemBaseAddrAlign, "MEM_BASE_ADDR_ALIGN"),
		deviceLong(clrt.DeviceMinDataTypeAlignSize, "MIN_DATA_TYPE_ALIGN_SIZE"),
		deviceLong(clrt.DeviceGlobalMemCachelineSize, "GLOBAL_MEM_CACHELINE_SIZE"),
		deviceLong(clrt.DeviceGlobalMemCacheSize, "GLOBAL_MEM_CACHE_SIZE"),
		deviceLong(clrt.DeviceGlobalMemSize, "GLOBAL_MEM_SIZE"),
		deviceLong(clrt.DeviceMaxConstantBufferSize, "MAX_CONSTANT_BUFFER_SIZE"),
		deviceLong(clrt.DeviceMaxConstantArgs, "MAX_CONSTANT_ARGS"),
		deviceLong(clrt.DeviceLocalMemSize, "LOCAL_MEM_SIZE"),
		deviceLong(clrt.DeviceErrorCorrectionSupport, "ERROR_CORRECTION_SUPPORT"),
		deviceLong(clrt.DeviceProfilingTimerResolution, "PROFILING_TIMER_RESOLUTION"),
		deviceLong(clrt.DeviceEndianLittle, "ENDIAN_LITTLE"),
		deviceLong(clrt.DeviceAvailable, "AVAILABLE"),
		deviceLong(clrt.DeviceCompilerAvailable, "COMPILER_AVAILABLE"),
		{Param: uint32(clrt.DeviceMaxWorkItemSizes), Name: "MAX_WORK_ITEM_SIZES", Kind: KindSizeArray, Count: 3},
	},
}

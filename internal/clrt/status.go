package clrt

import "fmt"

// Status is a runtime status code (cl_int). Zero is success, failures are
// negative. A non-zero Status is used directly as an error
type Status int64

// Status codes with a fixed phrase
const (
	Success                    Status = 0
	DeviceNotFound             Status = -1
	DeviceNotAvailable         Status = -2
	CompilerNotAvailable       Status = -3
	MemObjectAllocationFailure Status = -4
	OutOfResources             Status = -5
	OutOfHostMemory            Status = -6
	ProfilingInfoNotAvailable  Status = -7
	MemCopyOverlap             Status = -8
	ImageFormatMismatch        Status = -9
	ImageFormatNotSupported    Status = -10
	BuildProgramFailure        Status = -11
	MapFailure                 Status = -12
	InvalidValue               Status = -30
	InvalidDeviceType          Status = -31
)

var statusText = map[Status]string{
	Success:                    "success",
	DeviceNotFound:             "device not found",
	DeviceNotAvailable:         "device not available",
	CompilerNotAvailable:       "compiler not available",
	MemObjectAllocationFailure: "mem object allocation failure",
	OutOfResources:             "out of resources",
	OutOfHostMemory:            "out of host memory",
	ProfilingInfoNotAvailable:  "profiling not available",
	MemCopyOverlap:             "memcopy overlaps",
	ImageFormatMismatch:        "image format mismatch",
	ImageFormatNotSupported:    "image format not supported",
	BuildProgramFailure:        "build program failed",
	MapFailure:                 "map failed",
	InvalidValue:               "invalid value",
	InvalidDeviceType:          "invalid device type",
}

// Translate returns the human readable phrase for a status code. Codes
// without a fixed phrase render as "unknown error <N>"
func Translate(code Status) string {
	if msg, ok := statusText[code]; ok {
		return msg
	}
	return fmt.Sprintf("unknown error %d", int64(code))
}

func (s Status) Error() string {
	return Translate(s)
}

// Check converts a raw status code into an error, nil on success
func Check(code Status) error {
	if code == Success {
		return nil
	}
	return code
}

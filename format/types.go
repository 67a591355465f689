package format

type (
	CompressionType uint8
	Registration    uint8
	GridType        uint8
	Verbosity       uint8
)

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

const (
	RegistrationGridline Registration = 0 // RegistrationGridline places nodes on grid lines.
	RegistrationPixel    Registration = 1 // RegistrationPixel places nodes at cell centers.
)

const (
	GridCartesian  GridType = 0 // GridCartesian represents a Cartesian grid.
	GridGeographic GridType = 1 // GridGeographic represents a geographic (lon/lat) grid.
)

// Verbosity levels understood by the engine's -V option.
// VerboseOff is the zero value and omits the option entirely.
const (
	VerboseOff Verbosity = iota
	VerboseQuiet
	VerboseError
	VerboseWarning
	VerboseTiming
	VerboseInfo
	VerboseCompat
	VerboseDebug
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// ParseCompression maps a case-sensitive lower-case name ("none", "zstd", "s2", "lz4")
// to its CompressionType.
func ParseCompression(name string) (CompressionType, bool) {
	switch name {
	case "none", "":
		return CompressionNone, true
	case "zstd":
		return CompressionZstd, true
	case "s2":
		return CompressionS2, true
	case "lz4":
		return CompressionLZ4, true
	default:
		return 0, false
	}
}

func (r Registration) String() string {
	switch r {
	case RegistrationGridline:
		return "Gridline"
	case RegistrationPixel:
		return "Pixel"
	default:
		return "Unknown"
	}
}

func (g GridType) String() string {
	switch g {
	case GridCartesian:
		return "Cartesian"
	case GridGeographic:
		return "Geographic"
	default:
		return "Unknown"
	}
}

var verbosityNames = [...]string{"off", "quiet", "error", "warning", "timing", "info", "compat", "debug"}

func (v Verbosity) String() string {
	if int(v) < len(verbosityNames) {
		return verbosityNames[v]
	}

	return "unknown"
}

// Code returns the one-letter level code appended to -V, or "" for VerboseOff.
func (v Verbosity) Code() string {
	if v == VerboseOff || int(v) >= len(verbosityNames) {
		return ""
	}

	return verbosityNames[v][:1]
}

// ParseVerbosity maps a level name such as "info" or "debug" to its Verbosity.
func ParseVerbosity(name string) (Verbosity, bool) {
	for i, n := range verbosityNames {
		if n == name {
			return Verbosity(i), true
		}
	}

	return VerboseOff, false
}

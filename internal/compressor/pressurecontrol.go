package compressor

// PressureControl is one of the strategies spec.md §4.5.1 enumerates for
// when a variable- or single-speed train's natural discharge pressure at
// minimum speed already exceeds the request.
type PressureControl int

const (
	DownstreamChoke PressureControl = iota
	UpstreamChoke
	IndividualASVRate
	IndividualASVPressure
	CommonASV
)

func (p PressureControl) String() string {
	switch p {
	case DownstreamChoke:
		return "DOWNSTREAM_CHOKE"
	case UpstreamChoke:
		return "UPSTREAM_CHOKE"
	case IndividualASVRate:
		return "INDIVIDUAL_ASV_RATE"
	case IndividualASVPressure:
		return "INDIVIDUAL_ASV_PRESSURE"
	case CommonASV:
		return "COMMON_ASV"
	default:
		return "UNKNOWN"
	}
}

package stream

import "time"

// Stats reports the streaming manager's latency, utilization, and
// reliability counters.
type Stats struct {
	CurrentLatencyMs       float64
	AverageLatencyMs       float64
	PeakLatencyMs          float64
	InputBufferUtilization float64
	OutputBufferUtilization float64
	ProcessingTimeMs       float64
	CPUUsagePercent        float64
	FramesProcessed        uint64
	BufferUnderruns        uint64
	BufferOverflows        uint64
	DropoutsDetected       uint64
	SessionStartTime       time.Time
	TotalProcessingTimeMs  float64
}

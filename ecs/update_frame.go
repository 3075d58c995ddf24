package ecs

// FrameInfo describes the frame being processed. The World reuses a single value and
// publishes a pointer to it on TopicPreUpdate and TopicPostUpdate; handlers must not
// retain it.
type FrameInfo struct {
	Frame     uint64
	DeltaTime float64
	Elapsed   float64
}

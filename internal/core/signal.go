package core

// Frame is a raw wire payload delivered to a signaling connection.
type Frame []byte

// SignalConnection abstracts a participant's messaging transport.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	// TrySend enqueues a frame without blocking. A full queue or a
	// closed connection yields an error and the frame is dropped.
	TrySend(Frame) error
	// Ping issues a transport-level liveness probe.
	Ping() error
	IsOpen() bool
	Close()
}

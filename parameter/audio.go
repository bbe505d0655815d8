package parameter

// Impulse pluck
const (
	AudioEnabled    = true
	AudioSampleRate = 44100
	AudioVolume     = 0.2
	// AudioBaseHz is the pitch for an impulse of strength 1, stronger drags pitch up
	AudioBaseHz  = 220.0
	AudioMaxHz   = 880.0
	AudioDecayMs = 180
)

// Snapshot streaming
const (
	StreamAddr        = "127.0.0.1:8765"
	StreamPath        = "/ws"
	StreamBroadcastHz = 15
	StreamClientQueue = 4
)

// Headless run
const (
	RunSteps      = 300
	RunPlotWidth  = 60
	RunPlotHeight = 12
)

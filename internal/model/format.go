package model

// Format identifies a workout file type.
type Format string

const (
	FormatFit Format = "fit" // binary fitness-device file
	FormatGPX Format = "gpx" // GPS exchange file
	FormatLog Format = "log" // free-text device log
)

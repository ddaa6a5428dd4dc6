package consts

// Colors
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[91m"
	ColorGreen  = "\033[92m"
	ColorYellow = "\033[93m"
	ColorCyan   = "\033[96m"
)

const (
	RedError     string = ColorRed + "[ERROR]" + ColorReset
	GreenSuccess string = ColorGreen + "[Success]" + ColorReset
	YellowDebug  string = ColorYellow + "[Debug]" + ColorReset
	YellowWarn   string = ColorYellow + "[Warn]" + ColorReset
	BlueInfo     string = ColorCyan + "[Info]" + ColorReset
)

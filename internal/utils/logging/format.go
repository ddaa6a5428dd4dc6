package logging

import "postgrab/internal/domain/consts"

const successLevel = "success"

// formatLevel renders level tags in the program's own style.
func formatLevel(i any) string {
	lvl, _ := i.(string)
	switch lvl {
	case "info":
		return consts.BlueInfo
	case "warn":
		return consts.YellowWarn
	case "error", "fatal", "panic":
		return consts.RedError
	case "debug", "trace":
		return consts.YellowDebug
	case successLevel:
		return consts.GreenSuccess
	default:
		return ""
	}
}

package suggest

// Mode selects the cost/thoroughness tradeoff of a Suggest call, mirroring
// the aspell sug-mode config key.
type Mode int

const (
	Ultra Mode = iota
	Fast
	Normal
	Slow
	BadSpellers
)

// ParseMode maps a config-style mode name to a Mode, defaulting to Normal
// for an unrecognized name.
func ParseMode(name string) Mode {
	switch name {
	case "ultra":
		return Ultra
	case "fast":
		return Fast
	case "slow":
		return Slow
	case "bad-spellers":
		return BadSpellers
	default:
		return Normal
	}
}

// modeConfig bundles the knobs a Mode fixes.
type modeConfig struct {
	soundslikeLevel int // 1 or 2, selects limit1/limit2 soundslike threshold
	useTypo         bool
	useReplTable    bool
	span            int
	limit           int
}

func configFor(m Mode) modeConfig {
	switch m {
	case Ultra:
		return modeConfig{soundslikeLevel: 1, useTypo: false, useReplTable: false, span: 50, limit: 100}
	case Fast:
		return modeConfig{soundslikeLevel: 1, useTypo: true, useReplTable: true, span: 50, limit: 100}
	case Slow:
		return modeConfig{soundslikeLevel: 2, useTypo: true, useReplTable: true, span: 50, limit: 100}
	case BadSpellers:
		return modeConfig{soundslikeLevel: 2, useTypo: false, useReplTable: true, span: 125, limit: 1000}
	default: // Normal
		return modeConfig{soundslikeLevel: 2, useTypo: true, useReplTable: true, span: 50, limit: 100}
	}
}

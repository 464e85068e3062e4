package attributes

// Player is one row of the attribute sheet.
type Player struct {
	Name        string
	Class       CharacterClass
	Captain     bool
	Mii         string
	MiiColor    string
	ArmSide     Side
	BattingSide Side
	Weight      int
	Ability     Ability

	PitchingOverall int
	BattingOverall  int
	FieldingOverall int
	SpeedOverall    int

	StarSwing         StarSwing
	HitCurve          int
	HittingTrajectory int
	SlapContact       int
	ChargeContact     int
	SlapPower         int
	ChargePower       int

	Speed         int
	Bunting       int
	Fielding      int
	ThrowingSpeed int
	PreCharge     string

	StarPitch      StarPitch
	FastballSpeed  int
	CurveballSpeed int
	Curve          int
	Stamina        int
}

// Averages are the derived per-player ratings.
type Averages struct {
	Pitching float64 `json:"pitchingAverage"`
	Batting  float64 `json:"battingAverage"`
	Fielding float64 `json:"fieldingAverage"`
}

func (p Player) Averages() Averages {
	return Averages{
		Pitching: (float64(p.CurveballSpeed)/2 + float64(p.FastballSpeed)/2 + float64(p.Curve) + float64(p.Stamina)) / 4,
		Batting:  float64(p.SlapContact+p.ChargeContact+p.SlapPower+p.ChargePower) / 4,
		Fielding: float64(p.ThrowingSpeed+p.Fielding) / 2,
	}
}

// View is the JSON shape served to comparison tools.
type View struct {
	Name              string `json:"name"`
	CharacterClass    string `json:"characterClass"`
	ArmSide           string `json:"armSide"`
	BattingSide       string `json:"battingSide"`
	Weight            int    `json:"weight"`
	Ability           string `json:"ability"`
	PitchingOverall   int    `json:"pitchingOverall"`
	BattingOverall    int    `json:"battingOverall"`
	FieldingOverall   int    `json:"fieldingOverall"`
	SpeedOverall      int    `json:"speedOverall"`
	HittingTrajectory int    `json:"hittingTrajectory"`
	SlapHitContact    int    `json:"slapHitContact"`
	ChargeHitContact  int    `json:"chargeHitContact"`
	SlapHitPower      int    `json:"slapHitPower"`
	ChargeHitPower    int    `json:"chargeHitPower"`
	Speed             int    `json:"speed"`
	Bunting           int    `json:"bunting"`
	ThrowingSpeed     int    `json:"throwingSpeed"`
	Fielding          int    `json:"fielding"`
	CurveballSpeed    int    `json:"curveballSpeed"`
	FastballSpeed     int    `json:"fastballSpeed"`
	Curve             int    `json:"curve"`
	Stamina           int    `json:"stamina"`

	*Averages
}

func (p Player) View() View {
	return View{
		Name:              p.Name,
		CharacterClass:    p.Class.String(),
		ArmSide:           p.ArmSide.String(),
		BattingSide:       p.BattingSide.String(),
		Weight:            p.Weight,
		Ability:           p.Ability.String(),
		PitchingOverall:   p.PitchingOverall,
		BattingOverall:    p.BattingOverall,
		FieldingOverall:   p.FieldingOverall,
		SpeedOverall:      p.SpeedOverall,
		HittingTrajectory: p.HittingTrajectory,
		SlapHitContact:    p.SlapContact,
		ChargeHitContact:  p.ChargeContact,
		SlapHitPower:      p.SlapPower,
		ChargeHitPower:    p.ChargePower,
		Speed:             p.Speed,
		Bunting:           p.Bunting,
		ThrowingSpeed:     p.ThrowingSpeed,
		Fielding:          p.Fielding,
		CurveballSpeed:    p.CurveballSpeed,
		FastballSpeed:     p.FastballSpeed,
		Curve:             p.Curve,
		Stamina:           p.Stamina,
	}
}

// ViewWithAverages adds the derived averages to View.
func (p Player) ViewWithAverages() View {
	v := p.View()
	avg := p.Averages()
	v.Averages = &avg
	return v
}

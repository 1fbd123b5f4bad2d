package models

// Requests for the HTTP endpoints. Defaults are applied before validation.

type SignalRequest struct {
	SampleHours int `query:"sample_hours" json:"sample_hours" default:"1" validate:"gte=1,lte=168"`
	Short       int `query:"short" json:"short" default:"20" validate:"gte=1"`
	Long        int `query:"long" json:"long" default:"50" validate:"gtfield=Short"`
}

type BacktestRequest struct {
	Mode           string         `json:"mode" default:"position" validate:"oneof=position spot"`
	SampleHours    int            `json:"sample_hours" default:"1" validate:"gte=1,lte=168"`
	InitialCash    float64        `json:"initial_cash" default:"10000" validate:"gte=0"`
	InitialCoin    float64        `json:"initial_coin" validate:"gte=0"`
	FeeBps         float64        `json:"fee_bps" default:"10" validate:"gte=0,lte=1000"`
	SizingFraction float64        `json:"sizing_fraction" default:"0.5" validate:"gte=0,lte=1"`
	Strategy       StrategyConfig `json:"strategy"`
	IncludeCurve   bool           `json:"include_curve"`

	FloorPercentile float64 `json:"floor_percentile" validate:"gte=0,lte=1"`
}

type SweepRequest struct {
	Mode        string     `json:"mode" query:"mode" default:"position" validate:"oneof=position spot"`
	SampleHours int        `json:"sample_hours" query:"sample_hours" default:"1" validate:"gte=1,lte=168"`
	InitialCash float64    `json:"initial_cash" query:"initial_cash" default:"10000" validate:"gt=0"`
	InitialCoin float64    `json:"initial_coin" query:"initial_coin" validate:"gte=0"`
	FeeBps      float64    `json:"fee_bps" query:"fee_bps" default:"10" validate:"gte=0,lte=1000"`
	Workers     int        `json:"workers" query:"workers" validate:"gte=0,lte=256"`
	Space       SweepSpace `json:"space"`
}

// SimulationSettings are the portfolio parameters shared by single runs and sweeps.
type SimulationSettings struct {
	Mode        Mode    `json:"mode" yaml:"mode" default:"position" validate:"oneof=position spot"`
	InitialCash float64 `json:"initial_cash" yaml:"initial_cash" default:"10000" validate:"gte=0"`
	InitialCoin float64 `json:"initial_coin" yaml:"initial_coin" validate:"gte=0"`
	FeeBps      float64 `json:"fee_bps" yaml:"fee_bps" default:"10" validate:"gte=0"`
}

// Settings extracts the simulation settings of a backtest request.
func (r BacktestRequest) Settings() SimulationSettings {
	return SimulationSettings{Mode: Mode(r.Mode), InitialCash: r.InitialCash, InitialCoin: r.InitialCoin, FeeBps: r.FeeBps}
}

// Settings extracts the simulation settings of a sweep request.
func (r SweepRequest) Settings() SimulationSettings {
	return SimulationSettings{Mode: Mode(r.Mode), InitialCash: r.InitialCash, InitialCoin: r.InitialCoin, FeeBps: r.FeeBps}
}

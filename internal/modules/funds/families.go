package funds

import "github.com/corgilabs/bufferscope/internal/payoff"

// FamilyConfig describes one fund family. The full universe is the cartesian
// product of families and series months.
type FamilyConfig struct {
	ID                   string
	Name                 string
	ShortName            string
	ReferenceAssetTicker string
	ReferenceAssetName   string
	BufferType           payoff.BufferType
	BufferSizePct        float64
	BufferStartPct       float64
	BufferEndPct         float64
	ExpenseRatio         float64
	TickerPrefix         string
	TypicalCapRange      [2]float64 // min/max realistic starting cap, percent
}

// AssetParams holds the per-reference-asset constants driving the synthetic
// price paths.
type AssetParams struct {
	AnnualVol   float64
	AnnualDrift float64
	StartPrice  float64
}

// Families is the static fund-family universe.
var Families = []FamilyConfig{
	{
		ID:                   "tech-leaders-10",
		Name:                 "Technology Leaders 10% Structured Buffer ETF",
		ShortName:            "Technology Leaders 10%",
		ReferenceAssetTicker: "QQQ",
		ReferenceAssetName:   "Invesco QQQ Trust",
		BufferType:           payoff.BufferStandard,
		BufferSizePct:        10,
		BufferStartPct:       0,
		BufferEndPct:         -10,
		ExpenseRatio:         0.0079,
		TickerPrefix:         "CQ",
		TypicalCapRange:      [2]float64{12, 18},
	},
	{
		ID:                   "small-cap-15",
		Name:                 "U.S. Small-Cap 15% Structured Buffer ETF",
		ShortName:            "U.S. Small-Cap 15%",
		ReferenceAssetTicker: "IWM",
		ReferenceAssetName:   "iShares Russell 2000 ETF",
		BufferType:           payoff.BufferStandard,
		BufferSizePct:        15,
		BufferStartPct:       0,
		BufferEndPct:         -15,
		ExpenseRatio:         0.0079,
		TickerPrefix:         "CR",
		TypicalCapRange:      [2]float64{13, 20},
	},
	{
		ID:                   "us-equities-deep-30",
		Name:                 "U.S. Equities 30% Structured Buffer ETF",
		ShortName:            "U.S. Equities 30% Deep",
		ReferenceAssetTicker: "SPY",
		ReferenceAssetName:   "SPDR S&P 500 ETF Trust",
		BufferType:           payoff.BufferDeep,
		BufferSizePct:        30,
		BufferStartPct:       -5,
		BufferEndPct:         -35,
		ExpenseRatio:         0.0079,
		TickerPrefix:         "CS",
		TypicalCapRange:      [2]float64{8, 14},
	},
	{
		ID:                   "us-equities-full-100",
		Name:                 "U.S. Equities 100% Structured Buffer ETF",
		ShortName:            "U.S. Equities 100% Full",
		ReferenceAssetTicker: "SPY",
		ReferenceAssetName:   "SPDR S&P 500 ETF Trust",
		BufferType:           payoff.BufferFull,
		BufferSizePct:        100,
		BufferStartPct:       0,
		BufferEndPct:         -100,
		ExpenseRatio:         0.0079,
		TickerPrefix:         "CF",
		TypicalCapRange:      [2]float64{2, 5},
	},
	{
		ID:                   "intl-developed-15",
		Name:                 "International Developed Equities 15% Structured Buffer ETF",
		ShortName:            "International Developed 15%",
		ReferenceAssetTicker: "EFA",
		ReferenceAssetName:   "iShares MSCI EAFE ETF",
		BufferType:           payoff.BufferStandard,
		BufferSizePct:        15,
		BufferStartPct:       0,
		BufferEndPct:         -15,
		ExpenseRatio:         0.0079,
		TickerPrefix:         "CE",
		TypicalCapRange:      [2]float64{10, 16},
	},
	{
		ID:                   "emerging-markets-15",
		Name:                 "Emerging Markets Equities 15% Structured Buffer ETF",
		ShortName:            "Emerging Markets 15%",
		ReferenceAssetTicker: "EEM",
		ReferenceAssetName:   "iShares MSCI Emerging Markets ETF",
		BufferType:           payoff.BufferStandard,
		BufferSizePct:        15,
		BufferStartPct:       0,
		BufferEndPct:         -15,
		ExpenseRatio:         0.0079,
		TickerPrefix:         "CM",
		TypicalCapRange:      [2]float64{11, 18},
	},
}

// SeriesMonths lists the outcome-period series in launch order.
var SeriesMonths = []string{"May", "Jun", "Jul", "Aug"}

// seriesSuffixes maps a series month to its ticker suffix.
var seriesSuffixes = map[string]string{
	"May": "MB",
	"Jun": "JB",
	"Jul": "LB",
	"Aug": "AB",
}

// seriesStartDates maps a series month to its outcome-period start date.
var seriesStartDates = map[string]string{
	"May": "2026-05-01",
	"Jun": "2026-06-01",
	"Jul": "2026-07-01",
	"Aug": "2026-08-03",
}

// assetParams holds realistic volatility, drift, and starting price per
// reference asset. Unknown assets fall back to defaultAssetParams.
var assetParams = map[string]AssetParams{
	"QQQ": {AnnualVol: 0.22, AnnualDrift: 0.10, StartPrice: 520.45},
	"IWM": {AnnualVol: 0.25, AnnualDrift: 0.08, StartPrice: 225.30},
	"SPY": {AnnualVol: 0.18, AnnualDrift: 0.09, StartPrice: 585.20},
	"EFA": {AnnualVol: 0.20, AnnualDrift: 0.06, StartPrice: 82.15},
	"EEM": {AnnualVol: 0.24, AnnualDrift: 0.07, StartPrice: 44.80},
}

var defaultAssetParams = AssetParams{AnnualVol: 0.20, AnnualDrift: 0.08, StartPrice: 100}

// ParamsForAsset returns the simulation constants for a reference asset.
func ParamsForAsset(ticker string) AssetParams {
	if p, ok := assetParams[ticker]; ok {
		return p
	}
	return defaultAssetParams
}

// Definitions expands the family universe into individual fund definitions,
// one per family per series month.
func Definitions() []Definition {
	defs := make([]Definition, 0, len(Families)*len(SeriesMonths))
	for _, family := range Families {
		for _, month := range SeriesMonths {
			defs = append(defs, Definition{
				Ticker:               family.TickerPrefix + seriesSuffixes[month],
				Name:                 family.Name + " - " + month + " Series",
				FundFamily:           family.ShortName,
				ReferenceAssetTicker: family.ReferenceAssetTicker,
				ReferenceAssetName:   family.ReferenceAssetName,
				BufferType:           family.BufferType,
				BufferSizePct:        family.BufferSizePct,
				BufferStartPct:       family.BufferStartPct,
				BufferEndPct:         family.BufferEndPct,
				SeriesMonth:          month,
				ExpenseRatio:         family.ExpenseRatio,
			})
		}
	}
	return defs
}

// FamilyByShortName looks up a family config by its short name.
func FamilyByShortName(name string) (FamilyConfig, bool) {
	for _, f := range Families {
		if f.ShortName == name {
			return f, true
		}
	}
	return FamilyConfig{}, false
}

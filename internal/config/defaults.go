package config

const (
	defaultConfigPath            = "~/.config/menumerge/config.toml"
	defaultDataDir               = "~/.local/share/menumerge"
	defaultLogDir                = "~/.local/share/menumerge/logs"
	defaultNameWeight            = 0.4
	defaultPhoneWeight           = 0.4
	defaultGeoWeight             = 0.2
	defaultGeoDistanceThresholdM = 100.0
	defaultMinMatchConfidence    = 0.5
	defaultWorkers               = 1
	defaultQualityPrecision      = 2
	defaultAggregationCap        = 100
	defaultMinKeyLength          = 2
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
)

// defaultChecklist mirrors the completeness checks applied to merged restaurants.
var defaultChecklist = []string{
	"name",
	"coordinates",
	"address",
	"phone",
	"website|url",
	"rating",
	"categories|cuisine",
	"opening_hours",
	"wheelchair",
	"takeaway|delivery",
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Matching: Matching{
			NameWeight:            defaultNameWeight,
			PhoneWeight:           defaultPhoneWeight,
			GeoWeight:             defaultGeoWeight,
			GeoDistanceThresholdM: defaultGeoDistanceThresholdM,
			MinMatchConfidence:    defaultMinMatchConfidence,
			Assignment:            AssignmentGreedy,
			Workers:               defaultWorkers,
		},
		Merge: Merge{
			RequiredFieldsChecklist: append([]string(nil), defaultChecklist...),
			QualityPrecision:        defaultQualityPrecision,
			DefaultPrecedence:       []string{"b", "a"},
			FieldPrecedence: map[string][]string{
				"coordinates": {"a", "b"},
			},
		},
		Aggregation: Aggregation{
			AggregationCap: defaultAggregationCap,
			MinKeyLength:   defaultMinKeyLength,
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

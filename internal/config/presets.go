package config

var Presets = map[string]*Config{
	"liquid": {
		Particles: 100, Density: 0.8, Temperature: 1.0,
		Epsilon: 1.0, Sigma: 1.0, Cutoff: 2.5, Boltzmann: 1.0,
		MaxDisplacement: 0.1,
		Steps:           200000, SampleEvery: 100, Warmup: 50000,
	},
	"dilute": {
		Particles: 64, Density: 0.2, Temperature: 1.0,
		Epsilon: 1.0, Sigma: 1.0, Cutoff: 2.5, Boltzmann: 1.0,
		MaxDisplacement: 0.3,
		Steps:           100000, SampleEvery: 100, Warmup: 20000,
	},
	"cold": {
		Particles: 100, Density: 0.8, Temperature: 0.45,
		Epsilon: 1.0, Sigma: 1.0, Cutoff: 2.5, Boltzmann: 1.0,
		MaxDisplacement: 0.05,
		Steps:           400000, SampleEvery: 200, Warmup: 100000,
	},
	"hot": {
		Particles: 100, Density: 0.6, Temperature: 2.0,
		Epsilon: 1.0, Sigma: 1.0, Cutoff: 2.5, Boltzmann: 1.0,
		MaxDisplacement: 0.2,
		Steps:           150000, SampleEvery: 100, Warmup: 30000,
	},
	"quench": {
		Particles: 144, Density: 0.9, Temperature: 0.3,
		Epsilon: 1.0, Sigma: 1.0, Cutoff: 2.5, Boltzmann: 1.0,
		MaxDisplacement: 0.03,
		Steps:           500000, SampleEvery: 250, Warmup: 150000,
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}

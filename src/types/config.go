package types

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultLumiPb is the 2016 dataset luminosity in 1/pb.
const DefaultLumiPb = 36100

// StripJSONC loads a JSONC file (full-line // comments) and returns raw JSON
// bytes suitable for unmarshalling.
func StripJSONC(filename string) ([]byte, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []byte
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "//") {
			continue
		}
		// Inline // is kept as-is so values may contain paths and URLs.
		out = append(out, []byte(line+"\n")...)
	}
	return out, scanner.Err()
}

// Load reads a JSONC config file. Fields left at their zero value fall back
// to the defaults from Default.
func Load(path string) (Config, error) {
	b, err := StripJSONC(path)
	if err != nil {
		return Config{}, fmt.Errorf("types: load %q: %w", path, err)
	}
	var cfg Config
	if err := json.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("types: parse %q: %w", path, err)
	}
	def := Default()
	if cfg.InputDir == "" {
		cfg.InputDir = def.InputDir
	}
	if cfg.LumiPb == 0 {
		cfg.LumiPb = def.LumiPb
	}
	if cfg.Backgrounds == nil {
		cfg.Backgrounds = def.Backgrounds
	}
	if cfg.Regions == nil {
		cfg.Regions = def.Regions
	}
	if cfg.Plots == nil {
		cfg.Plots = def.Plots
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("types: config %q: %w", path, err)
	}
	return cfg, nil
}

// ResolveInputs returns a copy of the config with InputDir folded into every
// sample file path, so consumers can use the paths as-is. Absolute paths are
// left alone.
func (c Config) ResolveInputs() Config {
	join := func(f string) string {
		if c.InputDir == "" || f == "" || filepath.IsAbs(f) {
			return f
		}
		return filepath.Join(c.InputDir, f)
	}
	out := c
	out.InputDir = ""
	out.Backgrounds = append([]Sample(nil), c.Backgrounds...)
	for i := range out.Backgrounds {
		out.Backgrounds[i].File = join(out.Backgrounds[i].File)
	}
	out.Signals = append([]Sample(nil), c.Signals...)
	for i := range out.Signals {
		out.Signals[i].File = join(out.Signals[i].File)
	}
	out.Regions = append([]Region(nil), c.Regions...)
	for i := range out.Regions {
		out.Regions[i].Data.File = join(out.Regions[i].Data.File)
	}
	return out
}

// Validate rejects configs that cannot possibly plot.
func (c Config) Validate() error {
	if len(c.Backgrounds) == 0 {
		return fmt.Errorf("no backgrounds")
	}
	if len(c.Regions) == 0 {
		return fmt.Errorf("no regions")
	}
	if len(c.Plots) == 0 {
		return fmt.Errorf("no plots")
	}
	for _, r := range c.Regions {
		if r.Name == "" {
			return fmt.Errorf("region with empty name")
		}
		if r.Data.File == "" {
			return fmt.Errorf("region %q: data sample has no file", r.Name)
		}
	}
	for _, s := range append(append([]Sample(nil), c.Backgrounds...), c.Signals...) {
		if s.File == "" {
			return fmt.Errorf("sample %q has no file", s.Label)
		}
		if _, err := ParseColor(s.Color); err != nil {
			return err
		}
	}
	for _, p := range c.Plots {
		if p.Name == "" {
			return fmt.Errorf("plot with empty name")
		}
		if p.Rebin < 0 {
			return fmt.Errorf("plot %q: negative rebin %d", p.Name, p.Rebin)
		}
	}
	return nil
}

// Default is the built-in job: the standard control regions compared against
// the common background stack, with the usual kinematic distributions.
func Default() Config {
	dataMET := Sample{Label: "Data", File: "TT_Data_MET-2018-3-26_noWgt_v2.root"}
	dataPhoton := Sample{Label: "Data", File: "TT_Data_SinglePhoton-2018-3-26_noWgt_v2.root"}
	dataMuon := Sample{Label: "Data", File: "TT_Data_SingleMuon-2018-3-26_noWgt_v2.root"}
	dataJetHT := Sample{Label: "Data", File: "TT_Data_JetHT-2018-3-26_noWgt_v2.root"}

	return Config{
		InputDir: "..",
		LumiPb:   DefaultLumiPb,
		Backgrounds: []Sample{
			{Label: "QCD", File: "TT_QCD-2018-3-26_noWgt_v2.root", Color: "#ffcc00"},
			{Label: "ttbar", File: "TT_TTbar-2018-3-26_noWgt_v2.root", Color: "#ff0000"},
			{Label: "G+Jets", File: "TT_GJets-2018-3-26_noWgt_v2.root", Color: "#009900"},
			{Label: "Z->ll", File: "TT_DYJetsToLL-2018-3-26_noWgt_v2.root", Color: "#0000ff"},
			{Label: "Z->vv", File: "TT_ZJetsToNuNu-2018-3-26_noWgt_v2.root", Color: "#000099"},
			{Label: "W+Jets", File: "TT_WJetsToLNu-2018-3-26_noWgt_v2.root", Color: "#999999"},
			{Label: "TTG", File: "TT_TTG-2018-3-26_noWgt_v2.root", Color: "#666600"},
			{Label: "TTZ", File: "TT_TTZ-2018-3-26_noWgt_v2.root", Color: "#990099"},
			{Label: "diboson", File: "TT_Diboson-2018-3-26_noWgt_v2.root", Color: "#ff6680"},
		},
		Regions: []Region{
			{Name: "ttbar", Data: dataMET},
			{Name: "ttbarNob", Data: dataMET},
			{Name: "photon", Data: dataPhoton},
			{Name: "dilepton", Data: dataMuon},
			{Name: "ttbarLep", Data: dataMuon},
			{Name: "QCD", Data: dataJetHT},
			{Name: "QCDb", Data: dataJetHT},
		},
		Plots: []PlotDef{
			{Name: "HT", XLabel: "H_T [GeV]", LogY: true, XMin: 0, XMax: 2000, Rebin: 5},
			{Name: "MET", XLabel: "MET [GeV]", LogY: true, XMin: 0, XMax: 1000, Rebin: 5},
			{Name: "nJets", XLabel: "N_j", LogY: true},
			{Name: "nBJets", XLabel: "N_b", LogY: true, XMin: -0.5, XMax: 9.5},
			{Name: "nTops", XLabel: "N_t", LogY: true},
			{Name: "fakerateHT2", XLabel: "H_T [GeV]", LogY: true, XMin: 0, XMax: 2000, Rebin: 5},
			{Name: "fakerateNj2", XLabel: "N_j"},
			{Name: "fakerateNb2", XLabel: "N_b", LogY: true, XMin: -0.5, XMax: 9.5},
			{Name: "randomTopPt", XLabel: "rand top p_T [GeV]", Rebin: 5},
			{Name: "randomTopCandPt", XLabel: "rand top p_T [GeV]", Rebin: 5},
			{Name: "nVertices", XLabel: "NPV"},
		},
	}
}

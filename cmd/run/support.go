package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"strconv"

	"github.com/zintix-labs/qplant"
	"github.com/zintix-labs/qplant/classical"
	"github.com/zintix-labs/qplant/configs"
	"github.com/zintix-labs/qplant/demo"
	"github.com/zintix-labs/qplant/engine"
	_ "github.com/zintix-labs/qplant/qsim"
	"github.com/zintix-labs/qplant/sdk/core"
	"github.com/zintix-labs/qplant/server/logger"
	"github.com/zintix-labs/qplant/setting"
	"github.com/zintix-labs/qplant/stats"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var cfg *config = new(config)

type config struct {
	ph        optFloat
	nitrogen  optFloat
	theta1    optFloat
	theta2    optFloat
	mode      string
	conf      string
	data      string
	advise    bool
	runs      int
	worker    int
	seed      int64
	out       string
	verbose   bool
	pprofmode string
}

// optFloat 區分「沒有給」與「給了 0」
type optFloat struct {
	v   float64
	set bool
}

func (f *optFloat) String() string {
	if !f.set {
		return ""
	}
	return strconv.FormatFloat(f.v, 'g', -1, 64)
}

func (f *optFloat) Set(s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	f.v, f.set = v, true
	return nil
}

func bindVar() {
	flag.Var(&cfg.ph, "ph", "soil pH (qubit 0)")
	flag.Var(&cfg.nitrogen, "n", "nitrogen content (qubit 1)")
	flag.Var(&cfg.theta1, "theta1", "rotation angle of qubit 0 for agreement")
	flag.Var(&cfg.theta2, "theta2", "rotation angle of qubit 1 for agreement")
	flag.StringVar(&cfg.mode, "mode", "", "engine mode: auto|closed|simulated (overrides config)")
	flag.StringVar(&cfg.conf, "config", "", "lab setting yaml (default: embedded)")
	flag.StringVar(&cfg.data, "data", "", "directory holding the dataset csv (default: embedded demo)")
	flag.BoolVar(&cfg.advise, "advise", false, "compare classical and quantum advice over the dataset")
	flag.IntVar(&cfg.runs, "runs", 0, "agreement runs, 0 to skip")
	flag.IntVar(&cfg.worker, "worker", 1, "number of workers")
	flag.Int64Var(&cfg.seed, "seed", -1, "int64 seed for random number generator")
	flag.StringVar(&cfg.out, "out", "table", "agreement report: table|json|yaml")
	flag.BoolVar(&cfg.verbose, "v", false, "debug log to stderr")
	flag.StringVar(&cfg.pprofmode, "p", "", "pprof: '', cpu, heap, allocs")

	flag.Parse()

	// given seed illeagel -> random seed
	if cfg.seed < 1 {
		cfg.seed = core.RandomSeed()
	}
}

func execute() {
	cfg.valid()

	lab, err := cfg.buildLab()
	if err != nil {
		log.Fatal(err)
	}
	green := "\033[1;32m"
	reset := "\033[0m"
	p := message.NewPrinter(language.English)
	p.Printf("%s[MODE:%s] [BACKEND:%s] [SHOTS:%d]%s\n", green, lab.Mode(), backendName(lab), lab.Setting().Shots, reset)

	if cfg.ph.set {
		single, c := lab.PlantChoice(cfg.ph.v)
		fmt.Println(c.Draw())
		p.Printf("pH %.2f → P(maize)=%.4f P(soybean)=%.4f  quantum=%s classical=%s\n\n",
			cfg.ph.v, single.P0, single.P1, qplant.Choose(single), classical.Decide(cfg.ph.v))
	}
	if cfg.ph.set && cfg.nitrogen.set {
		joint, c := lab.PlantChoice2(cfg.ph.v, cfg.nitrogen.v)
		fmt.Println(c.Draw())
		for _, k := range engine.Outcomes {
			p.Printf("P(%s)=%.4f  ", k, joint[k])
		}
		fmt.Print("\n\n")
	}
	if cfg.advise {
		runAdvise(lab, p)
	}
	if cfg.runs > 0 {
		runAgreement(lab, p)
	}
}

func (cfg *config) buildLab() (*qplant.Lab, error) {
	raw := configs.Default()
	if cfg.conf != "" {
		bs, err := os.ReadFile(cfg.conf)
		if err != nil {
			return nil, err
		}
		raw = bs
	}
	ls, err := setting.GetLabSettingByYAML(raw)
	if err != nil {
		return nil, err
	}
	if cfg.mode != "" {
		if ls.Mode, err = engine.ParseMode(cfg.mode); err != nil {
			return nil, err
		}
	}
	if ls.Seed <= 0 {
		ls.Seed = cfg.seed
	}
	mode := logger.ModeSilence
	if cfg.verbose {
		mode = logger.ModeDev
	}
	return qplant.New(ls, logger.NewDefaultLogger(mode))
}

func runAdvise(lab *qplant.Lab, p *message.Printer) {
	fsys := demo.Data()
	if cfg.data != "" {
		fsys = os.DirFS(cfg.data)
	}
	ds, err := lab.Dataset(fsys)
	if err != nil {
		log.Fatal(err)
	}
	advice := lab.AdviseAll(ds)
	agree := 0
	p.Printf("%6s %8s %10s %10s %10s %8s\n", "pH", "N", "P(soy)", "classical", "quantum", "label")
	for _, a := range advice {
		if a.Agree {
			agree++
		}
		p.Printf("%6.2f %8.1f %10.4f %10s %10s %8s\n", a.Sample.PH, a.Sample.Nitrogen, a.Probs.P1, a.Classical, a.Quantum, a.Sample.Crop)
	}
	pred := classical.DecideAll(ds.Features())
	p.Printf("\n[SOURCE:%s] [SAMPLES:%d] [AGREE:%d] [CLASSICAL ACC:%.3f]\n\n",
		ds.Source, len(advice), agree, classical.Accuracy(pred, ds.Labels()))
}

func runAgreement(lab *qplant.Lab, p *message.Printer) {
	t1, t2 := math.Pi/2, math.Pi/2
	if cfg.ph.set {
		t1 = lab.PHChannel().Angle(cfg.ph.v)
	}
	if cfg.nitrogen.set {
		t2 = lab.NitrogenChannel().Angle(cfg.nitrogen.v)
	}
	if cfg.theta1.set {
		t1 = cfg.theta1.v
	}
	if cfg.theta2.set {
		t2 = cfg.theta2.v
	}
	a, err := lab.NewAgreement(cfg.seed)
	if err != nil {
		log.Fatal(err)
	}
	p.Printf("[WORKERS:%d] [RUNS:%d] [THETA:%.4f,%.4f] [SEED:%d]\n", cfg.worker, cfg.runs, t1, t2, a.Seed())
	rep, used, err := a.Run(t1, t2, cfg.runs, cfg.worker, true)
	if err != nil {
		log.Fatal(err)
	}
	if cfg.out == "table" {
		rep.StdOut(used)
		return
	}
	if err := rep.WriteWith(os.Stdout, stats.RenderOf(cfg.out)); err != nil {
		log.Fatal(err)
	}
}

func backendName(lab *qplant.Lab) string {
	if b := lab.Backend(); b != "" {
		return b
	}
	return "-"
}

func (cfg *config) valid() {
	if cfg.worker < 1 {
		log.Fatal("value err : workers must > 0")
	}
	if cfg.runs < 0 {
		log.Fatal("value err : runs must >= 0")
	}
	if stats.RenderOf(cfg.out) == nil {
		log.Fatal("value err : out must be table|json|yaml")
	}
	for name, f := range map[string]optFloat{"ph": cfg.ph, "n": cfg.nitrogen, "theta1": cfg.theta1, "theta2": cfg.theta2} {
		if f.set && (math.IsNaN(f.v) || math.IsInf(f.v, 0)) {
			log.Fatalf("value err : %s must be a finite number", name)
		}
	}
	if !cfg.ph.set && !cfg.advise && cfg.runs == 0 {
		p := message.NewPrinter(language.English)
		p.Printf("nothing to do: pass -ph, -advise or -runs\n")
		os.Exit(2)
	}
}

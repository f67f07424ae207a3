// pinweave — passcode obfuscator for keypad entry screens
//
// Turns a short numeric passcode into a long display string that buries
// the real digits among decoys and "delete last keystroke" glyphs:
// - Secret: L characters from the alphabet (4 for iphone, 6 for honor)
// - Weave: digits interleaved with ☒, runs capped at 3 of each kind
// - Display: woven copy (or copies) + a decoy tail
//
// Typing the display string on the device, pressing delete for every ☒,
// enters the passcode. Someone reading the string over your shoulder sees
// a jumble.
//
// Modes:
// - doubled: secret+secret woven once, adaptive schedule, post-pass smear
// - twice:   secret woven twice, static schedule, inline replacement
//
// Notes:
// - --seed makes output reproducible (Argon2id-stretched phrase)
// - --prompt weaves your own passcode instead of a random one
// - --debug prints the secret and every woven copy to stderr

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"pinweave/internal"

	"golang.org/x/term"
)

var version = "dev"

func usage() {
	prog := filepath.Base(os.Args[0])

	// Headline
	fmt.Println(internal.Banner(version))
	fmt.Println()

	// Usage
	fmt.Println(internal.Style("Usage:", internal.Bold, internal.Blue))
	fmt.Printf("  %s %s\n", prog, internal.Style("[options]", internal.Cyan))
	fmt.Println()

	// Flags
	fmt.Println(internal.Style("Flags:", internal.Bold, internal.Blue))
	fmt.Println(internal.Style("  --profile  --alphabet  --delete  --length  --mode  --schedule  --p  --max-run  --max-iter", internal.Cyan))
	fmt.Println(internal.Style("  --config  --seed  --kdf  --prompt  --mask", internal.Cyan))
	fmt.Println(internal.Style("  --count  --group  --show-secret  --qr  --verify  --self-test  --pager  --no-color  --debug  --version", internal.Cyan))
	fmt.Println()

	// Profiles
	fmt.Println(internal.Style("Profiles:", internal.Bold, internal.Blue))
	for _, name := range internal.ProfileNames() {
		p := internal.Profiles[name]
		fmt.Printf("  %-8s %d digits %s\n", p.Name, p.Length, internal.Style("("+p.About+")", internal.Gray))
	}
	fmt.Println()

	// Examples
	fmt.Println(internal.Style("Examples:", internal.Bold, internal.Blue))
	fmt.Printf("  %s --profile iphone\n", prog)
	fmt.Printf("  %s --profile honor --mode twice --show-secret\n", prog)
	fmt.Printf("  %s --prompt --qr\n", prog)
	fmt.Printf("  %s --self-test\n", prog)
}

func main() {
	profile := flag.String("profile", "", "Device profile: iphone (4 digits), honor (6 digits)")
	alphabet := flag.String("alphabet", internal.DigitAlphabet, "Characters a passcode may contain")
	del := flag.String("delete", string(internal.DefaultDelete), "Delete glyph, literal or by name (box, x, cross, slash, bullet)")
	length := flag.Int("length", 4, "Passcode length (overrides --profile)")
	mode := flag.String("mode", string(internal.ModeDoubled), "Assembly mode: doubled, twice")
	schedule := flag.String("schedule", "", "Probability schedule: adaptive, static (default: paired with --mode)")
	prob := flag.Float64("p", 0.7, "Consume probability for --schedule static")
	policy := flag.String("policy", "", "Replace policy: post-pass, inline, none (default: paired with --mode)")
	maxRun := flag.Int("max-run", 3, "Longest allowed run of digits or delete glyphs")
	maxIter := flag.Int("max-iter", 1<<20, "Iteration ceiling per weave (0 = unbounded)")

	configPath := flag.String("config", "", "Load settings from a TOML or YAML file")
	seed := flag.String("seed", "", "Seed phrase for reproducible output")
	kdf := flag.String("kdf", "argon2id", "Seed phrase KDF: argon2id, none")
	prompt := flag.Bool("prompt", false, "Type your own passcode (hidden, entered twice)")
	mask := flag.Bool("mask", true, "With --prompt, show * while typing (use --mask=false to disable)")

	count := flag.Int("count", 1, "Number of display strings to generate")
	group := flag.Int("group", 0, "Insert a space every N characters (0 = off)")
	showSecret := flag.Bool("show-secret", false, "Print the plaintext passcode under each display string")
	qrOut := flag.Bool("qr", false, "Also render each display string as a QR code")
	verify := flag.Bool("verify", true, "Replay each woven copy on an emulated keypad before printing")
	selfTest := flag.Bool("self-test", false, "Run built-in test harness over every profile and mode")
	pager := flag.Bool("pager", true, "Paginate long output when writing to a TTY; --pager=false to disable")
	noColor := flag.Bool("no-color", false, "Disable colored output (TTY-safe)")
	debug := flag.Bool("debug", false, "Log the secret and woven copies to stderr (never use for a real passcode)")
	logFormat := flag.String("log-format", "text", "Debug log format: text, json")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	help := flag.Bool("help", false, "Show usage")

	flag.Parse()

	if *versionFlag {
		fmt.Println(version)
		return
	}

	// Color enablement: default on for TTY unless --no-color
	internal.SetColorEnabled(!*noColor && term.IsTerminal(int(syscall.Stdout)))

	if *help {
		usage()
		return
	}

	// Settings precedence: flags > env > file > defaults
	cfg, err := internal.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["profile"] {
		if err := internal.ApplyProfile(&cfg, *profile); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(2)
		}
	}
	if set["alphabet"] {
		cfg.Alphabet = *alphabet
	}
	if set["delete"] {
		r, err := internal.ResolveDelete(*del)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(2)
		}
		cfg.Delete = string(r)
	}
	if set["length"] {
		cfg.Length = *length
	}
	if set["mode"] {
		cfg.Mode = internal.Mode(strings.ToLower(strings.TrimSpace(*mode)))
	}
	if set["schedule"] {
		cfg.Schedule.Kind = internal.ScheduleKind(strings.ToLower(strings.TrimSpace(*schedule)))
	}
	if set["p"] {
		cfg.Schedule.Static = *prob
		if !set["schedule"] {
			cfg.Schedule.Kind = internal.ScheduleStatic
		}
	}
	if set["policy"] {
		cfg.Policy = *policy
	}
	if set["max-run"] {
		cfg.MaxRun = *maxRun
	}
	if set["max-iter"] {
		cfg.MaxIterations = *maxIter
	}
	if set["debug"] {
		cfg.Debug = *debug
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	logger, err := internal.NewLogger(internal.LogConfig{Debug: cfg.Debug, Format: *logFormat})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
	if cfg.Debug {
		fmt.Fprintln(os.Stderr, internal.Style("warning: --debug prints the plaintext passcode", internal.Bold, internal.Red))
	}

	// Random source: seeded phrase or system randomness
	var src internal.Source
	if *seed != "" {
		sp := internal.DefaultSeedPolicy()
		sp.KDF = *kdf
		src, err = internal.NewSeededSource(*seed, sp)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(2)
		}
	} else {
		src, err = internal.NewSystemSource()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(2)
		}
	}

	outIsTTY := term.IsTerminal(int(syscall.Stdout))
	inIsTTY := term.IsTerminal(int(syscall.Stdin))
	_, height, _ := term.GetSize(int(syscall.Stdout))
	if height <= 0 {
		height = 24
	}
	pg := &internal.Pager{
		Out:     os.Stdout,
		Prompt:  os.Stderr,
		In:      os.Stdin,
		Enabled: *pager && outIsTTY && inIsTTY && !*qrOut,
		Height:  height,
	}

	// Self-test
	if *selfTest {
		rounds := *count
		if !set["count"] {
			rounds = 5
		}
		fmt.Println(internal.Style("== Self-test ==", internal.Bold))
		failed := internal.RunSelfTest(internal.SelfTestOptions{
			Configs:    internal.SelfTestConfigs(cfg),
			Rounds:     rounds,
			Source:     src,
			ShowSecret: *showSecret,
			Pager:      pg,
		})
		if failed > 0 {
			os.Exit(1)
		}
		return
	}

	o, err := internal.New(cfg, internal.WithSource(src), internal.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	generate := o.Generate
	if *verify {
		generate = o.GenerateVerified
	}

	// Prompted passcode: one display string for the typed secret
	if *prompt {
		secret, err := internal.PromptForSecret(*mask, cfg.Alphabet)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(2)
		}
		generate = func() (internal.Result, error) {
			res, err := o.ObfuscateSecret(secret)
			if err != nil || !*verify {
				return res, err
			}
			return res, internal.Verify(res, cfg.DeleteRune(), cfg.MaxRun)
		}
		*count = 1
	}

	for i := 0; i < *count; i++ {
		res, err := generate()
		if err != nil {
			// Sanitize: errors never carry the passcode
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		sep := ""
		if *group > 0 {
			sep = " "
		}
		if !pg.Println(internal.Highlight(internal.Group(res.Display, *group, sep), cfg.DeleteRune())) {
			return
		}
		if *showSecret {
			if !pg.Println(internal.Style("  passcode: "+res.Secret, internal.Gray)) {
				return
			}
		}
		if *qrOut {
			if err := internal.RenderQR(os.Stdout, res.Display); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				os.Exit(1)
			}
		}
	}
}

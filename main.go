// shaderbg renders generated fragment shaders on a borderless surface behind
// every other window.
//
// Commands:
//   - gen [description...] (default): describe a shader, render the code the
//     description service returns; further descriptions are read from stdin
//   - view FILE [-watch] [-snapshot out.png] [-snapshot-frame N]: render a
//     local fragment shader
//   - calc: calculator window
//   - about: about window
//   - init-config: write the default settings file
//
// Rendering pipeline:
//  1. Sanitize the source (strip markdown fences).
//  2. Acquire an OpenGL ES 2.0 context on a fresh background surface.
//  3. Build the program and bind a fullscreen quad.
//  4. Draw every frame with u_time, u_resolution and u_mouse populated.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	fyneapp "fyne.io/fyne/v2/app"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"shaderbg/internal/config"
	"shaderbg/internal/describe"
	"shaderbg/internal/desktop"
	"shaderbg/internal/logger"
	"shaderbg/internal/render"
	"shaderbg/internal/shader"
	"shaderbg/internal/snapshot"
	"shaderbg/internal/ui"
	"shaderbg/internal/watch"
)

const (
	appName    = "shaderbg"
	appVersion = "1.0.0"

	// dismissCommand typed on stdin hides the current failure notice.
	dismissCommand = ":dismiss"

	defaultSnapshotFrame = 30
)

// Command is the operation selected on the command line.
type Command int

const (
	CommandGen Command = iota
	CommandView
	CommandCalc
	CommandAbout
	CommandInitConfig
	CommandHelp
)

func init() {
	runtime.LockOSThread() // GLFW and fyne require the main thread
}

// detectCommand picks the command from the arguments left after the global
// flags. No arguments, or arguments that are not a command name, mean gen
// with those arguments as the description.
func detectCommand(args []string) (Command, []string) {
	if len(args) == 0 {
		return CommandGen, nil
	}

	switch strings.ToLower(args[0]) {
	case "gen", "generate":
		return CommandGen, args[1:]
	case "view":
		return CommandView, args[1:]
	case "calc", "calculator":
		return CommandCalc, args[1:]
	case "about":
		return CommandAbout, args[1:]
	case "init-config":
		return CommandInitConfig, args[1:]
	case "help", "-h", "-help", "--help":
		return CommandHelp, nil
	}
	return CommandGen, args
}

func usage(w io.Writer) {
	fmt.Fprintf(w, `usage: %[1]s [-config FILE] [command] [args]

commands:
  gen [description...]    render shaders from descriptions (default)
  view FILE [-watch] [-snapshot out.png] [-snapshot-frame N]
                          render a fragment shader file
  calc                    open the calculator
  about                   open the about window
  init-config             write the default settings to %[2]s
`, appName, config.Path())
}

// session wires the render pipeline to the desktop host.
type session struct {
	cfg     config.Config
	log     *zap.Logger
	host    *desktop.Host
	manager *render.Manager
	notices *notifier
}

func newSession(cfg config.Config, log *zap.Logger, observer render.FrameObserver) (*session, error) {
	host, err := desktop.NewHost(log)
	if err != nil {
		return nil, err
	}
	return &session{
		cfg:     cfg,
		log:     log,
		host:    host,
		manager: render.NewManager(host, renderOptions(cfg, log, observer)...),
		notices: newNotifier(os.Stdout),
	}, nil
}

func renderOptions(cfg config.Config, log *zap.Logger, observer render.FrameObserver) []render.Option {
	opts := []render.Option{
		render.WithLogger(log),
		render.WithSettleDelay(cfg.SettleDelay.Duration),
	}
	if cfg.Width > 0 && cfg.Height > 0 {
		opts = append(opts, render.WithSize(cfg.Width, cfg.Height))
	}
	if observer != nil {
		opts = append(opts, render.WithFrameObserver(observer))
	}
	return opts
}

// render runs on the main thread.
func (s *session) render(ctx context.Context, source string) {
	err := s.manager.Render(ctx, source, s.cfg.SurfaceID)
	s.notices.Report(err, shader.Sanitize(source))
}

// run drives the host loop until ctx is done, then removes every surface.
func (s *session) run(ctx context.Context) error {
	defer s.host.Terminate()
	defer s.manager.TeardownAll()

	err := s.host.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func runGen(ctx context.Context, cfg config.Config, log *zap.Logger, args []string, stdin io.Reader) error {
	s, err := newSession(cfg, log, nil)
	if err != nil {
		return err
	}
	client := describe.New(cfg.APIURL,
		describe.WithLogger(log),
		describe.WithTimeout(cfg.RequestTimeout.Duration),
		describe.WithRetries(cfg.Retries))

	descriptions := make(chan string)
	go func() {
		defer close(descriptions)
		if len(args) > 0 {
			select {
			case descriptions <- strings.Join(args, " "):
			case <-ctx.Done():
				return
			}
		}
		scanner := bufio.NewScanner(stdin)
		for scanner.Scan() {
			select {
			case descriptions <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		for description := range descriptions {
			if strings.TrimSpace(description) == dismissCommand {
				if !s.host.Post(func() { s.notices.Dismiss() }) {
					return
				}
				continue
			}
			code, err := client.Describe(ctx, description)
			if errors.Is(err, describe.ErrEmptyDescription) {
				continue
			}
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				if !s.host.Post(func() { s.notices.Unavailable(err) }) {
					return
				}
				continue
			}
			if !s.host.Post(func() { s.render(ctx, code) }) {
				return
			}
		}
	}()

	return s.run(ctx)
}

// viewFlags are the options of the view command.
type viewFlags struct {
	file          string
	watch         bool
	snapshot      string
	snapshotFrame int
}

func parseViewFlags(args []string) (viewFlags, error) {
	var vf viewFlags
	fs := flag.NewFlagSet("view", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.BoolVar(&vf.watch, "watch", false, "re-render whenever the file changes")
	fs.StringVar(&vf.snapshot, "snapshot", "", "write a PNG of one frame and exit")
	fs.IntVar(&vf.snapshotFrame, "snapshot-frame", defaultSnapshotFrame, "frame index to capture")

	// Allow the file before or after the flags.
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		vf.file, args = args[0], args[1:]
	}
	if err := fs.Parse(args); err != nil {
		return vf, err
	}
	if vf.file == "" {
		vf.file = fs.Arg(0)
	}
	if vf.file == "" {
		return vf, errors.New("view: missing shader file")
	}
	if vf.snapshotFrame < 0 {
		return vf, errors.Errorf("view: invalid snapshot frame %d", vf.snapshotFrame)
	}
	return vf, nil
}

// snapshotObserver writes frame n of the first loop to path, then calls done.
func snapshotObserver(path string, n, maxWidth int, log *zap.Logger, done func(error)) render.FrameObserver {
	taken := false
	return func(f render.Frame) {
		if taken || f.Index != n {
			return
		}
		taken = true

		pix := f.Context.ReadPixels(f.Width, f.Height)
		out, err := os.Create(path)
		if err != nil {
			done(errors.Wrap(err, "create snapshot"))
			return
		}
		caption := fmt.Sprintf("frame %d  t=%.2fs", f.Index, f.Elapsed.Seconds())
		err = snapshot.Encode(out, pix, f.Width, f.Height, maxWidth, caption)
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err == nil {
			log.Info("snapshot written", zap.String("path", path), zap.Int("frame", f.Index))
		}
		done(err)
	}
}

func runView(ctx context.Context, cfg config.Config, log *zap.Logger, args []string) error {
	vf, err := parseViewFlags(args)
	if err != nil {
		return err
	}
	source, err := os.ReadFile(vf.file)
	if err != nil {
		return errors.Wrap(err, "read shader")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var observer render.FrameObserver
	var snapErr error
	if vf.snapshot != "" {
		observer = snapshotObserver(vf.snapshot, vf.snapshotFrame, cfg.SnapshotWidth, log, func(err error) {
			snapErr = err
			cancel()
		})
	}

	s, err := newSession(cfg, log, observer)
	if err != nil {
		return err
	}
	show := func(contents []byte) {
		s.render(ctx, string(contents))
		// A snapshot can never be taken of a shader that failed to build.
		if vf.snapshot != "" {
			if f := s.manager.Coordinator(cfg.SurfaceID).Failure(); f != nil {
				snapErr = f
				cancel()
			}
		}
	}
	s.host.Post(func() { show(source) })

	if vf.watch {
		go func() {
			err := watch.File(ctx, vf.file, log, func(contents []byte) {
				s.host.Post(func() { show(contents) })
			})
			if err != nil {
				log.Error("watch failed", zap.Error(err))
			}
		}()
	}

	if err := s.run(ctx); err != nil {
		return err
	}
	return snapErr
}

func runCalc(log *zap.Logger) {
	a := fyneapp.New()
	ui.ShowCalculator(a, log)
	a.Run()
}

func runAbout(cfg config.Config, log *zap.Logger) {
	a := fyneapp.New()
	ui.ShowAbout(a, ui.AboutInfo{
		Name:    appName,
		Version: appVersion,
		Lines: []string{
			"Describe a shader and watch it run",
			"behind your windows.",
		},
		URL:        cfg.APIURL,
		ButtonText: "Open description service",
	}, openURL, log)
	a.Run()
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	global := flag.NewFlagSet(appName, flag.ContinueOnError)
	global.SetOutput(stderr)
	global.Usage = func() { usage(stderr) }
	configPath := global.String("config", config.Path(), "settings file")
	if err := global.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	cmd, rest := detectCommand(global.Args())
	switch cmd {
	case CommandHelp:
		usage(stdout)
		return nil
	case CommandInitConfig:
		if err := config.Write(*configPath, config.Default()); err != nil {
			return err
		}
		fmt.Fprintln(stdout, "wrote", *configPath)
		return nil
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	log := logger.New(logger.Config{
		Environment: cfg.Environment,
		LogLevel:    cfg.LogLevel,
		ServiceName: appName,
	})
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cmd {
	case CommandView:
		return runView(ctx, cfg, log, rest)
	case CommandCalc:
		runCalc(log)
		return nil
	case CommandAbout:
		runAbout(cfg, log)
		return nil
	default:
		return runGen(ctx, cfg, log, rest, stdin)
	}
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, appName+":", err)
		os.Exit(1)
	}
}

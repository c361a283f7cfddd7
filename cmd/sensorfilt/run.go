package main

import (
	"bufio"
	"context"
	"io"
	"io/fs"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"

	"github.com/cwbudde/algo-sensorfilt/dsp/filterchain"
	"github.com/cwbudde/algo-sensorfilt/internal/config"
	"github.com/cwbudde/algo-sensorfilt/internal/snapshot"
)

type options struct {
	configPath  string
	inputPath   string
	statePath   string
	watch       bool
	metricsAddr string
	float       bool
	logLevel    string
}

// run filters in to out until in is exhausted or ctx is cancelled, then saves
// the chain state if a snapshot path is configured.
func run(ctx context.Context, opts options, in io.Reader, out io.Writer, logger log.Logger, m *metrics) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	p, err := newProcessor(cfg, filterchain.DefaultRegistry(), logger, m, opts.float)
	if err != nil {
		return errors.Wrap(err, "build filter chain")
	}

	statePath := opts.statePath
	if statePath == "" {
		statePath = cfg.StateFile
	}

	if statePath != "" {
		p.restore(statePath)
	}

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer func() {
		cancel()
		wg.Wait()
	}()

	reloads := make(chan *config.Config, 1)
	if opts.watch {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := config.Watch(ctx, opts.configPath, logger, func(c *config.Config) {
				// Keep only the newest pending config.
				select {
				case <-reloads:
				default:
				}
				reloads <- c
			})
			if err != nil {
				level.Error(logger).Log("msg", "config watcher stopped", "err", err)
			}
		}()
	}

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- sc.Err()
	}()

	w := bufio.NewWriter(out)

loop:
	for lineNo := 1; ; {
		select {
		case <-ctx.Done():
			break loop

		case c := <-reloads:
			p.reload(c)

		case text, ok := <-lines:
			if !ok {
				break loop
			}

			if err := p.process(lineNo, text, w); err != nil {
				return errors.Wrap(err, "write output")
			}
			lineNo++
		}
	}

	if err := w.Flush(); err != nil {
		return errors.Wrap(err, "write output")
	}

	select {
	case err := <-scanErr:
		if err != nil {
			return errors.Wrap(err, "read input")
		}
	default:
	}

	if statePath != "" {
		return p.save(statePath)
	}

	return nil
}

// processor owns the active chain. It is used from a single goroutine.
type processor struct {
	logger  log.Logger
	metrics *metrics
	reg     *filterchain.Registry
	chain   *filterchain.Chain
	float   bool
	samples uint64
}

func newProcessor(cfg *config.Config, reg *filterchain.Registry, logger log.Logger, m *metrics, float bool) (*processor, error) {
	chain, err := cfg.NewChain(reg)
	if err != nil {
		return nil, err
	}

	p := &processor{logger: logger, metrics: m, reg: reg, float: float}
	p.install(chain)

	return p, nil
}

func (p *processor) install(chain *filterchain.Chain) {
	p.chain = chain
	p.metrics.stages.Set(float64(chain.Len()))

	adjusted := chain.Adjusted()
	p.metrics.adjustedStages.Set(float64(len(adjusted)))

	for _, id := range adjusted {
		level.Warn(p.logger).Log("msg", "stage window length was clamped", "stage", id)
	}
}

// process filters one input line. Blank lines and comments are skipped and
// malformed lines are logged and counted.
func (p *processor) process(lineNo int, text string, w *bufio.Writer) error {
	text = strings.TrimSpace(text)
	if text == "" || strings.HasPrefix(text, "#") {
		return nil
	}

	v, err := strconv.Atoi(text)
	if err != nil {
		level.Warn(p.logger).Log("msg", "skipping malformed sample", "line", lineNo, "err", err)
		p.metrics.malformedTotal.Inc()
		return nil
	}

	var (
		outF float64
		line string
	)

	if p.float {
		outF = p.chain.UpdateF(v)
		line = strconv.FormatFloat(outF, 'f', -1, 64)
	} else {
		out := p.chain.Update(v)
		outF = float64(out)
		line = strconv.Itoa(out)
	}

	p.samples++
	p.metrics.samplesTotal.Inc()
	p.metrics.lastInput.Set(float64(v))
	p.metrics.lastOutput.Set(outF)

	if _, err := w.WriteString(line + "\n"); err != nil {
		return err
	}
	return w.Flush()
}

// reload swaps in the chain described by cfg, carrying the current state over
// when the new chain has the same layout.
func (p *processor) reload(cfg *config.Config) {
	chain, err := cfg.NewChain(p.reg)
	if err != nil {
		level.Error(p.logger).Log("msg", "failed to build reloaded chain, keeping previous", "err", err)
		p.metrics.reloadsTotal.WithLabelValues(reloadFailed).Inc()
		return
	}

	if err := chain.SetState(p.chain.State()); err != nil {
		level.Info(p.logger).Log("msg", "chain layout changed, starting from fresh state", "reason", err)
	} else {
		level.Info(p.logger).Log("msg", "chain reloaded with previous state")
	}

	p.install(chain)
	p.metrics.reloadsTotal.WithLabelValues(reloadSuccess).Inc()
}

// restore loads a snapshot into the chain. Failures are logged and the chain
// keeps its fresh state.
func (p *processor) restore(path string) {
	doc, err := snapshot.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		level.Info(p.logger).Log("msg", "no snapshot found, starting fresh", "path", path)
		return
	}

	if err != nil {
		level.Warn(p.logger).Log("msg", "ignoring unreadable snapshot", "path", path, "err", err)
		return
	}

	if err := p.chain.SetState(doc.Chain); err != nil {
		level.Warn(p.logger).Log("msg", "snapshot does not match chain, starting fresh", "path", path, "err", err)
		return
	}

	p.samples = doc.Samples
	level.Info(p.logger).Log("msg", "restored chain state", "path", path, "saved_at", doc.SavedAt, "samples", doc.Samples)
}

func (p *processor) save(path string) error {
	err := snapshot.Save(path, snapshot.Document{
		SavedAt: time.Now().UTC(),
		Samples: p.samples,
		Chain:   p.chain.State(),
	})
	if err != nil {
		return err
	}

	level.Info(p.logger).Log("msg", "saved chain state", "path", path, "samples", p.samples)
	return nil
}

package bench

import (
	"context"
	"log"
	"net"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"lanbench/stats"
)

// Result is one finished (operation, target) pair.
type Result struct {
	Operation Operation
	Target    Target
	Report    *stats.StatsReport
}

type Service interface {
	Run(context.Context) ([]Result, error)
}

type service struct {
	config  Config
	targets []Target
	addr    string
}

func NewService(cfg Config) (Service, error) {
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	targets, err := ResolveTargets(cfg.Files)

	if err != nil {
		return nil, err
	}

	return &service{
		config:  cfg,
		targets: targets,
		addr:    net.JoinHostPort(cfg.RemoteIP, strconv.Itoa(cfg.EchoPort)),
	}, nil
}

// Run executes the full trial matrix: for each target, each enabled
// operation exactly Repeats times, strictly sequentially so trials never
// contend with each other. The first failed trial aborts the run; a pair
// is either measured Repeats times or not reported at all.
func (srv *service) Run(ctx context.Context) ([]Result, error) {
	before := srv.fetchStatus()

	results := make([]Result, 0, len(srv.targets)*len(srv.config.Operations))

	for _, target := range srv.targets {
		for _, op := range srv.config.Operations {
			accum := &stats.Stats{}

			for i := 0; i < srv.config.Repeats; i++ {
				if err := ctx.Err(); err != nil {
					return nil, err
				}

				duration, err := srv.runTrial(ctx, op, target)

				if err != nil {
					return nil, errors.Wrapf(err, "%s %s trial %d/%d",
						op, target.Path, i+1, srv.config.Repeats)
				}

				accum.Add(duration)
			}

			results = append(results, Result{
				Operation: op,
				Target:    target,
				Report:    accum.Report(),
			})
		}
	}

	srv.reportDrained(before)

	if srv.config.Renderer != nil {
		srv.config.Renderer(results)
	}

	return results, nil
}

func (srv *service) runTrial(ctx context.Context, op Operation, target Target) (time.Duration, error) {
	var (
		checksum byte
		err      error
	)

	start := time.Now()

	switch op {
	case OpRead:
		checksum, err = readFile(target.Path)
	case OpTranscode:
		err = srv.config.Transcoder.Transcode(ctx, target.Path)
	case OpTransfer:
		err = transfer(ctx, srv.addr, target.Path, srv.config.DialTimeout)
	default:
		err = errors.Errorf("unknown operation %q", op)
	}

	duration := time.Since(start)

	if err != nil {
		return 0, err
	}

	if op == OpRead {
		log.Printf("read %s in %v (checksum %#02x)", target.Path, duration, checksum)
	}

	return duration, nil
}

// fetchStatus snapshots the echo server's counters before the run. Purely
// diagnostic: failures are logged and ignored.
func (srv *service) fetchStatus() *statusSnapshot {
	if srv.config.StatusURL == "" {
		return nil
	}

	status, err := FetchStatus(srv.config.Client, srv.config.StatusURL)

	if err != nil {
		log.Printf("Echo server status check skipped - %v", err)
		return nil
	}

	return &statusSnapshot{drained: status.BytesDrained}
}

func (srv *service) reportDrained(before *statusSnapshot) {
	if before == nil {
		return
	}

	status, err := FetchStatus(srv.config.Client, srv.config.StatusURL)

	if err != nil {
		log.Printf("Echo server status check skipped - %v", err)
		return
	}

	var expected int64

	for _, op := range srv.config.Operations {
		if op != OpTransfer {
			continue
		}

		for _, target := range srv.targets {
			expected += target.Size * int64(srv.config.Repeats)
		}
	}

	log.Printf("Echo server drained %d bytes during the run (sent %d)",
		status.BytesDrained-before.drained, expected)
}

type statusSnapshot struct {
	drained int64
}

package cmd

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wegman-software/osm2pgsql-go/internal/area"
	"github.com/wegman-software/osm2pgsql-go/internal/areabuilder"
	"github.com/wegman-software/osm2pgsql-go/internal/areacollector"
	"github.com/wegman-software/osm2pgsql-go/internal/logger"
	"github.com/wegman-software/osm2pgsql-go/internal/metrics"
	"github.com/wegman-software/osm2pgsql-go/internal/middle"
	"github.com/wegman-software/osm2pgsql-go/internal/nodeindex"
	"github.com/wegman-software/osm2pgsql-go/internal/proj"
)

var assembleProjectionStr string

var assembleCmd = &cobra.Command{
	Use:   "assemble",
	Short: "Assemble polygon/multipolygon areas from ways and relations in the middle tables",
	Long: `Reads ways and multipolygon relations from the slim middle tables and
assembles them into polygonal areas: ring construction, inner/outer
classification, winding normalization and tag propagation.

Every closed way becomes one area; every multipolygon relation becomes one
area (a multipolygon when it has several outer rings), plus a promoted area
for every closed inner member whose tags differ from the relation's own.
Problems are reported to the log at debug level rather than aborting the
run: crossing segments and open rings leave the object's area with empty
geometry; role mismatches only suppress inner-member promotion, and an
inner ring with no enclosing outer is left out of the geometry.`,
	Run: runAssemble,
}

func init() {
	rootCmd.AddCommand(assembleCmd)

	assembleCmd.Flags().StringVar(&cfg.NodeIndexFile, "node-index", cfg.NodeIndexFile, "Path to the mmap node coordinate index built during import")
	assembleCmd.Flags().StringVar(&cfg.AreaOutputFile, "area-output", "areas.parquet", "Path to write assembled area records")
	assembleCmd.Flags().StringVarP(&assembleProjectionStr, "projection", "E", "4326", "Target projection SRID for area geometry (4326 or 3857)")
}

func runAssemble(cmd *cobra.Command, args []string) {
	log := logger.Get()
	ctx := context.Background()

	if err := cfg.Validate(); err != nil {
		exitWithError("invalid configuration", err)
	}

	srid, err := proj.ParseSRID(assembleProjectionStr)
	if err != nil {
		exitWithError("invalid projection", err)
	}
	cfg.Projection = srid

	log.Info("Starting area assembly",
		zap.String("node_index", cfg.NodeIndexFile),
		zap.String("output", cfg.AreaOutputFile),
		zap.Int("workers", cfg.Workers),
	)

	metricsCollector := metrics.NewCollector(cfg.MetricsInterval, log)
	metricsCtx, stopMetrics := context.WithCancel(ctx)
	go metricsCollector.Start(metricsCtx)
	defer stopMetrics()

	nodes, err := nodeindex.OpenMmapIndex(cfg.NodeIndexFile)
	if err != nil {
		exitWithError("failed to open node index", err)
	}
	defer nodes.Close()

	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		exitWithError("failed to parse connection string", err)
	}
	poolConfig.MaxConns = int32(cfg.Workers)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		exitWithError("failed to connect to PostgreSQL", err)
	}
	defer pool.Close()

	store := middle.NewMiddleStore(cfg, pool)
	collector := areacollector.New(store, nodes)

	writer, err := areabuilder.New(cfg.AreaOutputFile, cfg.BatchSize, cfg.Projection)
	if err != nil {
		exitWithError("failed to create area output writer", err)
	}
	defer writer.Close()

	out := &syncedWriter{writer: writer}

	start := time.Now()
	wayCount, err := assembleWays(ctx, store, collector, out, log)
	if err != nil {
		exitWithError("way assembly failed", err)
	}
	relCount, err := assembleRelations(ctx, store, collector, out, log)
	if err != nil {
		exitWithError("relation assembly failed", err)
	}

	log.Info("Area assembly complete",
		zap.Duration("duration", time.Since(start).Round(time.Second)),
		zap.Int64("way_areas", wayCount),
		zap.Int64("relation_areas", relCount),
	)
}

// syncedWriter guards areabuilder.Writer against concurrent calls: its
// Arrow RecordBuilder is not safe for concurrent use, but many worker
// goroutines emit areas independently in both assembleWays and
// assembleRelations.
type syncedWriter struct {
	mu     sync.Mutex
	writer *areabuilder.Writer
}

func (w *syncedWriter) Write(ar area.Area) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.writer.Write(ar)
}

// assembleWays fans a way id list out across cfg.Workers goroutines, one
// Assembler per goroutine. Independent Assemblers over disjoint ways carry
// no shared mutable state, so this parallelizes freely.
func assembleWays(ctx context.Context, store *middle.MiddleStore, collector *areacollector.Collector, out *syncedWriter, log *zap.Logger) (int64, error) {
	ids, err := store.GetAllWayIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing way ids: %w", err)
	}

	var count atomic.Int64
	idCh := make(chan int64, cfg.Workers*4)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < cfg.Workers; i++ {
		g.Go(func() error {
			reporter := area.NewLoggingReporter(log)
			assembler := area.NewAssembler(area.AssemblerConfig{Reporter: reporter})

			for id := range idCh {
				rawWay, err := store.GetWay(gctx, id)
				if err != nil {
					return fmt.Errorf("loading way %d: %w", id, err)
				}
				if rawWay == nil || !isClosedNodeList(rawWay.Nodes) {
					continue
				}
				way, err := collector.Way(rawWay)
				if err != nil {
					log.Warn("skipping way with unresolved nodes", zap.Int64("way_id", id), zap.Error(err))
					continue
				}
				if err := out.Write(assembler.AssembleWay(way)); err != nil {
					return fmt.Errorf("writing area for way %d: %w", id, err)
				}
				count.Add(1)
			}
			return nil
		})
	}

	g.Go(func() error {
		defer close(idCh)
		for _, id := range ids {
			select {
			case idCh <- id:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return count.Load(), err
	}
	return count.Load(), nil
}

func isClosedNodeList(nodes []int64) bool {
	return len(nodes) >= 4 && nodes[0] == nodes[len(nodes)-1]
}

// assembleRelations processes multipolygon relations in parallel, one
// Assembler per relation; each relation's promoted-inner areas are emitted
// synchronously from within its own AssembleRelation call.
func assembleRelations(ctx context.Context, store *middle.MiddleStore, collector *areacollector.Collector, out *syncedWriter, log *zap.Logger) (int64, error) {
	ids, err := store.GetMultipolygonRelationIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing multipolygon relation ids: %w", err)
	}

	var count atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)

	for _, id := range ids {
		id := id
		g.Go(func() error {
			raw, err := store.GetRelation(gctx, id)
			if err != nil {
				return fmt.Errorf("loading relation %d: %w", id, err)
			}
			if raw == nil {
				return nil
			}

			members, resolveErrs := collector.Relation(gctx, raw)
			for _, e := range resolveErrs {
				log.Warn("relation member unresolved", zap.Int64("relation_id", id), zap.Error(e))
			}
			if len(members) == 0 {
				return nil
			}

			reporter := area.NewLoggingReporter(log)
			assembler := area.NewAssembler(area.AssemblerConfig{Reporter: reporter})
			header := areacollector.RelationHeader(raw)

			var writeErr error
			assembler.AssembleRelation(header, members, func(ar area.Area) {
				if writeErr != nil {
					return
				}
				if err := out.Write(ar); err != nil {
					writeErr = fmt.Errorf("writing area %d: %w", ar.ID, err)
					return
				}
				count.Add(1)
			})
			return writeErr
		})
	}

	if err := g.Wait(); err != nil {
		return count.Load(), err
	}
	return count.Load(), nil
}

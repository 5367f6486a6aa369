package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/athapong/aio-keywords/pkg/batch"
	"github.com/athapong/aio-keywords/pkg/graph"
	"github.com/athapong/aio-keywords/pkg/graph/algorithms"
	"github.com/athapong/aio-keywords/pkg/graph/storage"
	"github.com/athapong/aio-keywords/pkg/graph/visualizer"
	"github.com/athapong/aio-keywords/pkg/keywords"
	"github.com/athapong/aio-keywords/pkg/nlp"
	"github.com/athapong/aio-keywords/pkg/source"
)

var (
	envFile         = flag.String("env", ".env", "Path to environment file")
	inputDir        = flag.String("input", "", "Directory containing input documents (.txt, .md, .html, .pdf)")
	outputFile      = flag.String("output", "keywords.json", "Output file path for the per-document results")
	configFile      = flag.String("config", "", "Path to a YAML extraction config (default: AIO_KEYWORDS_CONFIG)")
	graphOutput     = flag.String("graph", "", "Output file path for the merged keyword graph (optional)")
	visualize       = flag.Bool("visualize", false, "Generate a visualization of the keyword graph")
	visualizeOutput = flag.String("viz-output", "keyword_graph.html", "Output file for the visualization")
	neo4jExport     = flag.Bool("neo4j", false, "Store the keyword graph in Neo4j (AIO_KEYWORDS_NEO4J_URI, _USERNAME, _PASSWORD)")
	maxKeywords     = flag.Int("max-keywords", keywords.DefaultMaxKeywords, "Maximum keywords per document")
	minScore        = flag.Float64("min-score", keywords.DefaultMinScore, "Minimum term score between 0 and 1")
	workers         = flag.Int("workers", 0, "Number of concurrent documents (default: AIO_KEYWORDS_WORKERS or half the CPUs)")
	attempts        = flag.Int("attempts", 3, "Attempts per document before it is marked failed")
	explore         = flag.String("explore", "", "Print the graph neighbourhood of this keyword")
	exploreDepth    = flag.Int("depth", 2, "Neighbourhood depth for -explore")
	logLevel        = flag.String("log-level", "info", "Logging level (debug, info, warn, error)")
)

// options is the resolved command configuration.
type options struct {
	InputDir     string
	OutputFile   string
	Config       keywords.Config
	GraphOutput  string
	VizOutput    string
	Neo4j        *neo4jOptions
	MaxKeywords  int
	MinScore     float64
	Workers      int
	Attempts     int
	Explore      string
	ExploreDepth int
}

type neo4jOptions struct {
	URI      string
	Username string
	Password string
}

// documentResult is one line of the results file.
type documentResult struct {
	Path   string `json:"path"`
	Format string `json:"format"`
	batch.Result
}

func main() {
	flag.Parse()

	// Configure logging
	logger := logrus.New()
	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		logger.Fatalf("Invalid log level: %v", err)
	}
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	if err := godotenv.Load(*envFile); err != nil {
		logger.Debugf("No env file loaded from %s: %v", *envFile, err)
	}

	opts, err := resolveOptions()
	if err != nil {
		logger.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine := nlp.NewProseEngine(nlp.WithProseLogger(logger))
	if err := run(ctx, opts, engine, logger, os.Stdout); err != nil {
		logger.Fatal(err)
	}
}

func resolveOptions() (options, error) {
	if *inputDir == "" {
		return options{}, errors.New("input directory must be specified")
	}

	cfg := keywords.DefaultConfig()
	path := *configFile
	if path == "" {
		path = os.Getenv("AIO_KEYWORDS_CONFIG")
	}
	if path != "" {
		loaded, err := keywords.LoadConfig(path)
		if err != nil {
			return options{}, err
		}
		cfg = loaded
	}

	poolSize := *workers
	if poolSize == 0 {
		if v := os.Getenv("AIO_KEYWORDS_WORKERS"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return options{}, errors.Wrap(err, "invalid AIO_KEYWORDS_WORKERS")
			}
			poolSize = n
		}
	}

	opts := options{
		InputDir:     *inputDir,
		OutputFile:   *outputFile,
		Config:       cfg,
		GraphOutput:  *graphOutput,
		MaxKeywords:  *maxKeywords,
		MinScore:     *minScore,
		Workers:      poolSize,
		Attempts:     *attempts,
		Explore:      *explore,
		ExploreDepth: *exploreDepth,
	}
	if *visualize {
		opts.VizOutput = *visualizeOutput
	}
	if *neo4jExport {
		opts.Neo4j = &neo4jOptions{
			URI:      os.Getenv("AIO_KEYWORDS_NEO4J_URI"),
			Username: os.Getenv("AIO_KEYWORDS_NEO4J_USERNAME"),
			Password: os.Getenv("AIO_KEYWORDS_NEO4J_PASSWORD"),
		}
		if opts.Neo4j.URI == "" {
			return options{}, errors.New("AIO_KEYWORDS_NEO4J_URI must be set for -neo4j")
		}
	}
	return opts, nil
}

func run(ctx context.Context, opts options, engine nlp.Engine, logger *logrus.Logger, out io.Writer) error {
	docs, err := source.LoadAll(opts.InputDir, logger)
	if err != nil {
		return errors.Wrap(err, "failed to read input directory")
	}
	if len(docs) == 0 {
		return errors.Errorf("no input files found in %s", opts.InputDir)
	}
	logger.Infof("Processing %d input files...", len(docs))

	extractor, err := keywords.New(opts.Config, engine, keywords.WithLogger(logger))
	if err != nil {
		return err
	}

	runnerOpts := []batch.Option{batch.WithLogger(logger), batch.WithMaxAttempts(opts.Attempts)}
	if opts.Workers > 0 {
		runnerOpts = append(runnerOpts, batch.WithPoolSize(opts.Workers))
	}
	runner, err := batch.NewRunner(extractor, runnerOpts...)
	if err != nil {
		return err
	}
	defer runner.Release()

	jobs := make([]batch.Job, len(docs))
	for i, doc := range docs {
		jobs[i] = batch.Job{
			ID:          doc.ID,
			Content:     doc.Content,
			MaxKeywords: opts.MaxKeywords,
			MinScore:    opts.MinScore,
			Metadata: map[string]string{
				"filename": filepath.Base(doc.Path),
				"filepath": doc.Path,
			},
		}
	}
	results := runner.Run(ctx, jobs)

	records := make([]documentResult, len(results))
	generator := graph.NewGenerator(graph.WithLogger(logger))
	failed := 0
	for i, res := range results {
		records[i] = documentResult{Path: docs[i].Path, Format: string(docs[i].Format), Result: res}
		if res.Status != batch.StatusCompleted {
			failed++
			continue
		}
		if err := generator.AddDocument(res.JobID, res.Report); err != nil {
			logger.WithError(err).WithField("doc_id", res.JobID).Error("Failed to add document to graph")
		}
	}

	if err := writeJSON(opts.OutputFile, records); err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"documents": len(records),
		"failed":    failed,
	}).Infof("Results saved to %s", opts.OutputFile)

	if opts.GraphOutput == "" && opts.VizOutput == "" && opts.Neo4j == nil && opts.Explore == "" {
		return nil
	}

	keywordGraph := generator.Generate()
	logger.Infof("Keyword graph generated with %d nodes and %d edges",
		len(keywordGraph.Nodes), len(keywordGraph.Edges))

	if opts.GraphOutput != "" {
		if err := storage.NewJSONGraphStore(opts.GraphOutput).StoreGraph(ctx, keywordGraph); err != nil {
			return errors.Wrap(err, "failed to store keyword graph")
		}
		logger.Infof("Keyword graph saved to %s", opts.GraphOutput)
	}

	if opts.VizOutput != "" {
		viz := visualizer.NewD3Visualizer(opts.VizOutput)
		if err := viz.Visualize(keywordGraph); err != nil {
			logger.Errorf("Failed to visualize keyword graph: %v", err)
		} else {
			logger.Infof("Visualization saved to %s", opts.VizOutput)
		}
	}

	if opts.Neo4j != nil {
		if err := exportNeo4j(ctx, opts.Neo4j, keywordGraph); err != nil {
			return err
		}
	}

	if opts.Explore != "" {
		return printNeighbourhood(out, keywordGraph, opts.Explore, opts.ExploreDepth)
	}
	return nil
}

func exportNeo4j(ctx context.Context, opts *neo4jOptions, g *graph.KeywordGraph) error {
	store, err := storage.NewNeo4jGraphStore(opts.URI, opts.Username, opts.Password)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Connect(ctx); err != nil {
		return err
	}
	return store.StoreGraph(ctx, g)
}

func printNeighbourhood(out io.Writer, g *graph.KeywordGraph, keyword string, depth int) error {
	nodes, err := algorithms.NewGraphTraversal(g).Traverse(keyword, depth, algorithms.BFS)
	if err != nil {
		return err
	}
	for _, n := range nodes {
		fmt.Fprintf(out, "%s\t%s\t%d documents\n", n.Label, n.Type, len(n.Sources))
	}
	return nil
}

func writeJSON(path string, v interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "failed to create output directory")
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode results")
	}
	return errors.Wrapf(os.WriteFile(path, data, 0644), "failed to write %s", path)
}

// Command prism reduces colored point clouds by color-stratified
// sampling.
//
// Single file:
//
//	prism -input scan.ply -output sampled.ply -k 2 -q 4
//
// Directory batch (output tree mirrors the input tree):
//
//	prism -input ./raw -output ./sampled -k 1
//
// Object storage works the same way; paths may be s3://bucket/prefix or
// minio://endpoint/bucket/prefix (MinIO credentials come from
// MINIO_ACCESS_KEY / MINIO_SECRET_KEY):
//
//	prism -input s3://scans/raw -output s3://scans/sampled -workers 8
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	miniogo "github.com/minio/minio-go/v7"
	miniocreds "github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/hupe1980/prismgo"
	"github.com/hupe1980/prismgo/blobstore"
	minioblob "github.com/hupe1980/prismgo/blobstore/minio"
	s3blob "github.com/hupe1980/prismgo/blobstore/s3"
	"github.com/hupe1980/prismgo/ledger"
	"github.com/hupe1980/prismgo/outlier"
	"github.com/hupe1980/prismgo/ply"
	"github.com/hupe1980/prismgo/resource"
	"github.com/hupe1980/prismgo/sampler"
)

var (
	input            = flag.String("input", "", "Input file or directory (PLY; .zst/.gz/.lz4 transparent)")
	output           = flag.String("output", "", "Output file or directory")
	capacity         = flag.Int("k", 1, "Bin capacity (max points per color bin)")
	step             = flag.Float64("q", 1.0, "Color quantization step size")
	noChromaticity   = flag.Bool("no-chromaticity", false, "Disable chromaticity normalization (use raw RGB)")
	policyName       = flag.String("policy", "first", "In-bin selection policy: first or farthest")
	workers          = flag.Int("workers", 0, "Concurrent workers (default GOMAXPROCS)")
	outlierRemoval   = flag.Bool("outlier-removal", false, "Remove statistical outliers before sampling")
	outlierNeighbors = flag.Int("outlier-neighbors", outlier.DefaultOptions.NumNeighbors, "Neighborhood size for outlier removal")
	outlierStd       = flag.Float64("outlier-std", outlier.DefaultOptions.StdRatio, "Std-deviation cutoff for outlier removal")
	ioLimit          = flag.Int64("io-limit", 0, "Blob I/O throughput cap in bytes/sec (0 = unlimited)")
	ledgerTable      = flag.String("ledger-table", "", "DynamoDB table recording per-file completions")
	resume           = flag.Bool("resume", false, "Skip files already recorded in the ledger")
	jsonLogs         = flag.Bool("json-logs", false, "Emit JSON logs instead of text")
	verbose          = flag.Bool("v", false, "Debug logging")
)

func main() {
	flag.Parse()
	if *input == "" || *output == "" {
		fmt.Fprintln(os.Stderr, "both -input and -output are required")
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := prismgo.NewTextLogger(level)
	if *jsonLogs {
		logger = prismgo.NewJSONLogger(level)
	}

	if err := run(ctx, logger); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *prismgo.Logger) error {
	policy, err := sampler.ParsePolicy(*policyName)
	if err != nil {
		return err
	}

	srcStore, srcName, err := resolveLocation(ctx, *input, false)
	if err != nil {
		return fmt.Errorf("input: %w", err)
	}
	dstStore, dstName, err := resolveLocation(ctx, *output, true)
	if err != nil {
		return fmt.Errorf("output: %w", err)
	}

	opts := []prismgo.Option{
		prismgo.WithCapacity(*capacity),
		prismgo.WithQuantizationStep(*step),
		prismgo.WithSelectionPolicy(policy),
		prismgo.WithParallelism(*workers),
		prismgo.WithLogger(logger),
		prismgo.WithResourceController(resource.NewController(resource.Config{
			MaxWorkers:         int64(*workers),
			IOLimitBytesPerSec: *ioLimit,
		})),
	}
	if *noChromaticity {
		opts = append(opts, prismgo.WithRawColor())
	}
	if *outlierRemoval {
		opts = append(opts, prismgo.WithOutlierRemoval(func(o *outlier.Options) {
			o.NumNeighbors = *outlierNeighbors
			o.StdRatio = *outlierStd
		}))
	}
	if *ledgerTable != "" {
		cfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return fmt.Errorf("load AWS config: %w", err)
		}
		opts = append(opts, prismgo.WithLedger(ledger.NewDDBLedger(dynamodb.NewFromConfig(cfg), *ledgerTable), *resume))
	}

	s, err := prismgo.New(opts...)
	if err != nil {
		return err
	}

	// A path naming a cloud artifact is a single-file run; anything else
	// is a batch over the tree beneath it.
	if ply.IsCloudPath(srcName) {
		outName := dstName
		if outName == "" || !ply.IsCloudPath(outName) {
			outName = joinName(dstName, lastSegment(srcName))
		}
		_, err := s.ProcessFile(ctx, srcStore, srcName, dstStore, outName)
		return err
	}

	summary, err := s.Run(ctx, srcStore, srcName, dstStore, dstName)
	if err != nil {
		return err
	}
	if !summary.OK() {
		return fmt.Errorf("%d of %d files failed", summary.Failed, summary.Total)
	}
	return nil
}

// resolveLocation maps a CLI path to a blob store plus the name within
// it. Supported schemes: s3://bucket/name, minio://endpoint/bucket/name,
// and plain filesystem paths.
func resolveLocation(ctx context.Context, raw string, forWrite bool) (blobstore.Store, string, error) {
	switch {
	case strings.HasPrefix(raw, "s3://"):
		bucket, name, err := splitBucketPath(strings.TrimPrefix(raw, "s3://"))
		if err != nil {
			return nil, "", err
		}
		cfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, "", fmt.Errorf("load AWS config: %w", err)
		}
		return s3blob.NewStore(awss3.NewFromConfig(cfg), bucket, ""), name, nil

	case strings.HasPrefix(raw, "minio://"):
		rest := strings.TrimPrefix(raw, "minio://")
		endpoint, bucketPath, ok := strings.Cut(rest, "/")
		if !ok {
			return nil, "", fmt.Errorf("minio path %q needs endpoint/bucket/name", raw)
		}
		bucket, name, err := splitBucketPath(bucketPath)
		if err != nil {
			return nil, "", err
		}
		client, err := miniogo.New(endpoint, &miniogo.Options{
			Creds:  miniocreds.NewStaticV4(os.Getenv("MINIO_ACCESS_KEY"), os.Getenv("MINIO_SECRET_KEY"), ""),
			Secure: os.Getenv("MINIO_INSECURE") == "",
		})
		if err != nil {
			return nil, "", err
		}
		return minioblob.NewStore(client, bucket, ""), name, nil

	default:
		abs, err := filepath.Abs(raw)
		if err != nil {
			return nil, "", err
		}
		if ply.IsCloudPath(abs) {
			// Single file: root the store at the parent directory.
			return blobstore.NewLocalStore(filepath.Dir(abs)), filepath.Base(abs), nil
		}
		if !forWrite {
			if info, err := os.Stat(abs); err != nil {
				return nil, "", err
			} else if !info.IsDir() {
				return nil, "", fmt.Errorf("%s is neither a point cloud file nor a directory", raw)
			}
		}
		return blobstore.NewLocalStore(abs), "", nil
	}
}

func splitBucketPath(s string) (bucket, name string, err error) {
	bucket, name, ok := strings.Cut(s, "/")
	if !ok || bucket == "" {
		return "", "", fmt.Errorf("object path %q needs bucket/name", s)
	}
	return bucket, name, nil
}

func lastSegment(name string) string {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[i+1:]
	}
	return name
}

func joinName(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return strings.TrimSuffix(prefix, "/") + "/" + name
}

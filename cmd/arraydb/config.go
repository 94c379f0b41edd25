package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/arraydb/blobstore"
	minioblob "github.com/hupe1980/arraydb/blobstore/minio"
	s3blob "github.com/hupe1980/arraydb/blobstore/s3"
)

// Config is the optional YAML configuration file.
type Config struct {
	LogLevel string      `yaml:"log_level"`
	Store    StoreConfig `yaml:"store"`
	Snapshot struct {
		Concurrency int   `yaml:"concurrency"`
		Bandwidth   int64 `yaml:"bandwidth"`
	} `yaml:"snapshot"`
}

// StoreConfig selects the blob store used for snapshots.
type StoreConfig struct {
	Type      string `yaml:"type"` // local, s3 or minio
	Path      string `yaml:"path"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Secure    bool   `yaml:"secure"`
}

var errNoStore = errors.New("no snapshot store configured; use -store or the store section of -config")

func loadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return l, nil
}

// openStore builds the blob store described by sc.
func openStore(ctx context.Context, sc StoreConfig) (blobstore.BlobStore, error) {
	switch sc.Type {
	case "":
		return nil, errNoStore
	case "local":
		if sc.Path == "" {
			return nil, errors.New("local store: path is required")
		}
		return blobstore.NewLocalStore(sc.Path), nil
	case "s3":
		if sc.Bucket == "" {
			return nil, errors.New("s3 store: bucket is required")
		}
		opts := []s3blob.Option{s3blob.WithPrefix(sc.Prefix)}
		if sc.Region != "" {
			opts = append(opts, s3blob.WithRegion(sc.Region))
		}
		if sc.Endpoint != "" {
			opts = append(opts, s3blob.WithEndpoint(sc.Endpoint))
		}
		return s3blob.New(ctx, sc.Bucket, opts...)
	case "minio":
		if sc.Bucket == "" || sc.Endpoint == "" {
			return nil, errors.New("minio store: bucket and endpoint are required")
		}
		client, err := minio.New(sc.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(sc.AccessKey, sc.SecretKey, ""),
			Secure: sc.Secure,
			Region: sc.Region,
		})
		if err != nil {
			return nil, fmt.Errorf("minio store: %w", err)
		}
		return minioblob.NewStore(client, sc.Bucket, sc.Prefix), nil
	default:
		return nil, fmt.Errorf("unknown store type %q", sc.Type)
	}
}

package main

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/dustin/go-humanize"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/kelseyhightower/envconfig"
	"github.com/weberc2/blockfs/pkg/filesystem"
	"github.com/weberc2/blockfs/pkg/image"
	"github.com/weberc2/blockfs/pkg/pgutil"
	. "github.com/weberc2/blockfs/pkg/types"
	"gopkg.in/yaml.v2"
)

const (
	envVarPrefix = "BLOCKFS"
	appName      = "blockfs"
)

type Config struct {
	ArenaSize      Size        `envconfig:"BLOCKFS_ARENA_SIZE"      yaml:"arenaSize"`
	BlockSize      Size        `envconfig:"BLOCKFS_BLOCK_SIZE"      yaml:"blockSize"`
	MaxRecords     uint32      `envconfig:"BLOCKFS_MAX_RECORDS"     yaml:"maxRecords"`
	MaxDirectories uint32      `envconfig:"BLOCKFS_MAX_DIRECTORIES" yaml:"maxDirectories"`
	MaxChildren    uint32      `envconfig:"BLOCKFS_MAX_CHILDREN"    yaml:"maxChildren"`
	MaxFileSize    Size        `envconfig:"BLOCKFS_MAX_FILE_SIZE"   yaml:"maxFileSize"`
	Persist        bool        `envconfig:"BLOCKFS_PERSIST"         yaml:"persist"`
	User           string      `envconfig:"BLOCKFS_USER"            yaml:"user"`
	Color          bool        `envconfig:"BLOCKFS_COLOR"           yaml:"color"`
	HistoryFile    string      `envconfig:"BLOCKFS_HISTORY_FILE"    yaml:"historyFile"`
	Store          StoreConfig `yaml:"store"`
}

type StoreConfig struct {
	Kind     string        `envconfig:"BLOCKFS_STORE"        yaml:"kind"`
	Dir      string        `envconfig:"BLOCKFS_STORE_DIR"    yaml:"dir"`
	Bucket   string        `envconfig:"BLOCKFS_S3_BUCKET"    yaml:"bucket"`
	Prefix   string        `envconfig:"BLOCKFS_S3_PREFIX"    yaml:"prefix"`
	Gzip     bool          `envconfig:"BLOCKFS_STORE_GZIP"   yaml:"gzip"`
	Postgres pgutil.Config `yaml:"postgres"`
}

const (
	StoreNone = "none"
	StoreDir  = "dir"
	StoreS3   = "s3"
	StorePG   = "pg"
)

// DefaultConfig is the starting point that the config file, environment and
// flags override in that order.
func DefaultConfig() Config {
	params := filesystem.DefaultParams()
	dir := ".blockfs"
	var history string
	if home, err := os.UserHomeDir(); err == nil {
		dir = filepath.Join(home, ".local", "share", appName)
		history = filepath.Join(dir, "history")
	}
	user := os.Getenv("USER")
	if user == "" {
		user = "user"
	}
	return Config{
		ArenaSize:      Size(params.ArenaSize),
		BlockSize:      Size(params.BlockSize),
		MaxRecords:     params.MaxRecords,
		MaxDirectories: params.MaxDirectories,
		MaxChildren:    params.MaxChildren,
		MaxFileSize:    Size(params.MaxFileSize),
		Persist:        params.Persist,
		User:           user,
		Color:          true,
		HistoryFile:    history,
		Store: StoreConfig{
			Kind:   StoreDir,
			Dir:    dir,
			Prefix: "images/",
			Gzip:   true,
		},
	}
}

// LoadConfig reads `configFile` (or BLOCKFS_CONFIG_FILE, or
// ~/.config/blockfs.yaml) over the defaults and then applies the environment.
// A missing file is not an error.
func LoadConfig(configFile string) (*Config, error) {
	if configFile == "" {
		configFile = os.Getenv(envVarPrefix + "_CONFIG_FILE")
	}
	if configFile == "" {
		if home, err := os.UserHomeDir(); err == nil {
			configFile = filepath.Join(home, ".config", appName+".yaml")
		}
	}

	c := DefaultConfig()
	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		} else if err := yaml.UnmarshalStrict(data, &c); err != nil {
			return nil, fmt.Errorf("unmarshaling config file: %w", err)
		}
	}

	if err := envconfig.Process(envVarPrefix, &c); err != nil {
		return nil, fmt.Errorf("parsing environment variables: %w", err)
	}

	return &c, nil
}

func (c *Config) Validate() error {
	if y, e := func() (string, string) {
		if c.ArenaSize <= 0 {
			return "arenaSize", "ARENA_SIZE"
		}
		if c.BlockSize <= 0 {
			return "blockSize", "BLOCK_SIZE"
		}
		if c.MaxRecords == 0 {
			return "maxRecords", "MAX_RECORDS"
		}
		if c.MaxDirectories == 0 {
			return "maxDirectories", "MAX_DIRECTORIES"
		}
		if c.MaxChildren == 0 {
			return "maxChildren", "MAX_CHILDREN"
		}
		if c.User == "" {
			return "user", "USER"
		}
		switch c.Store.Kind {
		case StoreNone, StorePG:
		case StoreDir:
			if c.Store.Dir == "" {
				return "store.dir", "STORE_DIR"
			}
		case StoreS3:
			if c.Store.Bucket == "" {
				return "store.bucket", "S3_BUCKET"
			}
		default:
			return "store.kind (one of none, dir, s3, pg)", "STORE"
		}
		return "", ""
	}(); y != "" {
		return fmt.Errorf(
			"missing or invalid configuration: %s / %s_%s",
			y,
			envVarPrefix,
			e,
		)
	}
	return nil
}

func (c *Config) Params() filesystem.Params {
	return filesystem.Params{
		ArenaSize:      Byte(c.ArenaSize),
		BlockSize:      Byte(c.BlockSize),
		MaxRecords:     c.MaxRecords,
		MaxDirectories: c.MaxDirectories,
		MaxChildren:    c.MaxChildren,
		MaxFileSize:    Byte(c.MaxFileSize),
		Persist:        c.Persist,
	}
}

// Open returns the configured image store, or nil for StoreNone.
func (sc *StoreConfig) Open() (image.Store, error) {
	var store image.Store
	switch sc.Kind {
	case StoreNone:
		return nil, nil
	case StoreDir:
		store = &image.DirStore{Root: sc.Dir}
	case StoreS3:
		sess, err := session.NewSession()
		if err != nil {
			return nil, fmt.Errorf("creating AWS session: %w", err)
		}
		store = &image.S3Store{
			Client: s3.New(sess),
			Bucket: sc.Bucket,
			Prefix: sc.Prefix,
		}
	case StorePG:
		db, err := pgutil.OpenPing(&sc.Postgres)
		if err != nil {
			return nil, fmt.Errorf("opening image store: %w", err)
		}
		pgs := (*image.PGStore)(db)
		if err := pgs.EnsureTable(); err != nil {
			return nil, fmt.Errorf("opening image store: %w", err)
		}
		store = pgs
	default:
		return nil, fmt.Errorf("unknown image store kind `%s`", sc.Kind)
	}
	if sc.Gzip {
		store = &image.GzipStore{Store: store}
	}
	return store, nil
}

// Size is a byte count written either as a plain number or with a unit
// suffix such as `KiB`, `MiB` or `GiB`.
type Size int64

func (s *Size) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var value string
	if err := unmarshal(&value); err != nil {
		return err
	}
	return s.Decode(value)
}

func (s *Size) Decode(value string) error {
	value = strings.TrimSpace(value)
	if strings.HasPrefix(value, "-") {
		return fmt.Errorf("parsing size `%s`: %w", value, NegativeSizeErr)
	}
	n, err := humanize.ParseBytes(value)
	if err != nil {
		return fmt.Errorf("parsing size `%s`: %w", value, err)
	}
	if n > math.MaxInt64 {
		return fmt.Errorf("parsing size `%s`: %w", value, SizeOverflowErr)
	}
	*s = Size(n)
	return nil
}

const (
	NegativeSizeErr ConstError = "size must not be negative"
	SizeOverflowErr ConstError = "size overflows a signed 64-bit byte count"
)

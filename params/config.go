package params

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Market struct {
	// CapitalAsset is the asset agents pay with. Every other asset found in
	// agent inventories gets its own order book at reset.
	CapitalAsset string
	// StepInterval throttles the driver loop between simulation steps.
	StepInterval time.Duration
	// FeederSeed seeds the demo order feeder so runs are reproducible.
	FeederSeed int64
}

type Node struct {
	APIAddr string
	DataDir string
	LogFile string
}

type Config struct {
	Market Market
	Node   Node
}

func Default() Config {
	return Config{
		Market: Market{
			CapitalAsset: "capital",
			StepInterval: 500 * time.Millisecond,
			FeederSeed:   1,
		},
		Node: Node{
			APIAddr: ":8080",
			DataDir: "data",
			LogFile: "data/agorad.log",
		},
	}
}

// LoadFromEnv loads configuration from .env file (if exists) and environment variables
// Priority: ENV > .env file > defaults
func LoadFromEnv(envPath string) Config {
	cfg := Default()

	// Try to load .env file (optional - won't fail if not exists)
	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load() // loads .env from current directory
	}

	if asset := os.Getenv("CAPITAL_ASSET"); asset != "" {
		cfg.Market.CapitalAsset = asset
	}

	if step := os.Getenv("STEP_INTERVAL_MS"); step != "" {
		if ms, err := strconv.Atoi(step); err == nil {
			cfg.Market.StepInterval = time.Duration(ms) * time.Millisecond
		}
	}

	if seed := os.Getenv("FEEDER_SEED"); seed != "" {
		if n, err := strconv.ParseInt(seed, 10, 64); err == nil {
			cfg.Market.FeederSeed = n
		}
	}

	if addr := os.Getenv("API_ADDR"); addr != "" {
		cfg.Node.APIAddr = addr
	}
	if dir := os.Getenv("DATA_DIR"); dir != "" {
		cfg.Node.DataDir = dir
	}
	if logFile := os.Getenv("LOG_FILE"); logFile != "" {
		cfg.Node.LogFile = logFile
	}

	return cfg
}

package config

// Config is the root configuration shared by the PHS binaries. Each binary
// reads the same file and uses the sections it needs.
type Config struct {
	Upstream  UpstreamConfig  `yaml:"upstream"`
	Database  DBConfig        `yaml:"database"`
	Store     StoreConfig     `yaml:"store"`
	Crawler   CrawlerConfig   `yaml:"crawler"`
	Provider  ProviderConfig  `yaml:"provider"`
	Webserver WebserverConfig `yaml:"webserver"`
}

// UpstreamConfig holds the position feed settings.
type UpstreamConfig struct {
	URL     string   `yaml:"url"`
	Source  string   `yaml:"source"` // Provenance tag written with every record
	Timeout Duration `yaml:"timeout"`
}

// DBConfig holds the time-series database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// StoreConfig selects and parameterizes the position store backend.
type StoreConfig struct {
	Backend string `yaml:"backend"` // "postgres" or "memory"
	Table   string `yaml:"table"`
}

// CrawlerConfig holds ingestion daemon settings.
type CrawlerConfig struct {
	CycleTimeout Duration `yaml:"cycle_timeout"` // Budget for one fetch+store cycle
	HealthPort   int      `yaml:"health_port"`
}

// SearchConfig bounds the expanding-window nearest-timestamp search.
type SearchConfig struct {
	InitialRadius Duration `yaml:"initial_radius"`
	MaxRadius     Duration `yaml:"max_radius"`
}

// ProviderConfig holds the gRPC query service settings.
type ProviderConfig struct {
	ListenAddr string       `yaml:"listen_addr"`
	Search     SearchConfig `yaml:"search"`
}

// WebserverConfig holds the REST façade settings. The webserver never talks
// to the store directly; all queries go through the provider's gRPC API.
type WebserverConfig struct {
	ListenAddr   string   `yaml:"listen_addr"`
	ProviderAddr string   `yaml:"provider_addr"`
	CORSOrigins  []string `yaml:"cors_origins"`
	RPCTimeout   Duration `yaml:"rpc_timeout"`
	FeedInterval Duration `yaml:"feed_interval"` // Live WebSocket feed refresh
}

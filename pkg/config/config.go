package config

import (
	"os"
	"sync"

	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"
	"sigs.k8s.io/yaml"
)

type Config struct {
	// Port Settings
	Host        string `json:"host"`        // The domain name of the server.
	ServerAddr  string `json:"serverAddr"`  // The address the server endpoint binds to.
	MetricsAddr string `json:"metricsAddr"` // The address the metric endpoint binds to.

	Auth struct {
		AccessTokenSecret      string `json:"accessTokenSecret"`
		RefreshTokenSecret     string `json:"refreshTokenSecret"`
		AccessTokenExpiryHour  int    `json:"accessTokenExpiryHour"`
		RefreshTokenExpiryHour int    `json:"refreshTokenExpiryHour"`
	} `json:"auth"`

	Postgres struct {
		Host        string `json:"host"`
		ReplicaHost string `json:"replicaHost"` // optional read replica for analytics
		Port        string `json:"port"`
		DBName      string `json:"dbname"`
		User        string `json:"user"`
		Password    string `json:"password"`
		SSLMode     string `json:"sslmode"`
		TimeZone    string `json:"TimeZone"`
	} `json:"postgres"`

	Storage struct {
		// Root directory for uploaded attachments.
		UploadDir string `json:"uploadDir"`
		// Public base URL prefixed to stored object keys.
		BaseURL string `json:"baseURL"`
	} `json:"storage"`

	SMTP struct {
		Host     string `json:"host"`
		Port     int    `json:"port"`
		User     string `json:"user"`
		Password string `json:"password"`
		Notify   string `json:"notify"` // From address for outgoing mail.
	} `json:"smtp"`

	// Optional webhook endpoint mirroring every notification.
	Webhook struct {
		URL    string `json:"url"`
		Secret string `json:"secret"`
	} `json:"webhook"`

	Cron struct {
		// Spec for the nightly sprint burndown snapshot.
		SprintMetricSpec string `json:"sprintMetricSpec"`
	} `json:"cron"`
}

var (
	once   sync.Once
	config *Config
)

func GetConfig() *Config {
	once.Do(func() {
		config = initConfig()
	})
	return config
}

func IsDebugMode() bool {
	return gin.Mode() == gin.DebugMode
}

// initConfig reads the configuration file. In debug mode the path can be
// overridden with WORKPLANE_DEBUG_CONFIG_PATH; in production the file is
// mounted at /etc/config/config.yaml.
func initConfig() *Config {
	config := &Config{}
	var configPath string
	if IsDebugMode() {
		if os.Getenv("WORKPLANE_DEBUG_CONFIG_PATH") != "" {
			configPath = os.Getenv("WORKPLANE_DEBUG_CONFIG_PATH")
		} else {
			configPath = "./etc/debug-config.yaml"
		}
	} else {
		configPath = "/etc/config/config.yaml"
	}
	klog.Info("config path: ", configPath)

	configFile, err := os.ReadFile(configPath)
	if err != nil {
		klog.Fatalf("read config file failed: %v", err)
	}
	if err := yaml.Unmarshal(configFile, config); err != nil {
		klog.Fatalf("unmarshal config file failed: %v", err)
	}

	if config.Cron.SprintMetricSpec == "" {
		config.Cron.SprintMetricSpec = "5 0 * * *"
	}
	return config
}

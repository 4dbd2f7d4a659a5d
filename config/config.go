/*
Copyright 2025 Reckon Ledger Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package config

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"strings"
	"sync/atomic"

	"github.com/kelseyhightower/envconfig"

	"github.com/sirupsen/logrus"
)

const (
	DEFAULT_PORT = "5401"
)

var ConfigStore atomic.Value

type ServerConfig struct {
	SSL       bool   `json:"ssl" envconfig:"RECKON_SERVER_SSL"`
	Secure    bool   `json:"secure" envconfig:"RECKON_SERVER_SECURE"`
	SecretKey string `json:"secret_key" envconfig:"RECKON_SERVER_SECRET_KEY"`
	Domain    string `json:"domain" envconfig:"RECKON_SERVER_SSL_DOMAIN"`
	Email     string `json:"ssl_email" envconfig:"RECKON_SERVER_SSL_EMAIL"`
	Port      string `json:"port" envconfig:"RECKON_SERVER_PORT"`
}

type DataSourceConfig struct {
	Dns string `json:"dns" envconfig:"RECKON_DATA_SOURCE_DNS"`
}

type RedisConfig struct {
	Dns string `json:"dns" envconfig:"RECKON_REDIS_DNS"`
}

// AuditConfig points at the sink that receives immutable audit event records.
// When the webhook URL is empty, events are only written to the local log.
type AuditConfig struct {
	WebhookUrl string            `json:"webhook_url" envconfig:"RECKON_AUDIT_WEBHOOK_URL"`
	Headers    map[string]string `json:"headers"`
}

type RateLimitConfig struct {
	RequestsPerSecond  *float64 `json:"requests_per_second" envconfig:"RECKON_RATE_LIMIT_RPS"`
	Burst              *int     `json:"burst" envconfig:"RECKON_RATE_LIMIT_BURST"`
	CleanupIntervalSec *int     `json:"cleanup_interval_sec" envconfig:"RECKON_RATE_LIMIT_CLEANUP_INTERVAL_SEC"`
}

// ReconciliationConfig carries the tunables of the reconciliation engine
// itself rather than of its surroundings.
type ReconciliationConfig struct {
	// LockDurationSec bounds how long one operation may hold a report lock.
	LockDurationSec *int `json:"lock_duration_sec" envconfig:"RECKON_LOCK_DURATION_SEC"`
	// MaxStatementRows caps the accepted size of an uploaded statement.
	MaxStatementRows *int `json:"max_statement_rows" envconfig:"RECKON_MAX_STATEMENT_ROWS"`
}

type Configuration struct {
	ProjectName    string               `json:"project_name" envconfig:"RECKON_PROJECT_NAME"`
	Server         ServerConfig         `json:"server"`
	DataSource     DataSourceConfig     `json:"data_source"`
	Redis          RedisConfig          `json:"redis"`
	Audit          AuditConfig          `json:"audit"`
	RateLimit      RateLimitConfig      `json:"rate_limit"`
	Reconciliation ReconciliationConfig `json:"reconciliation"`
}

func loadConfigFromFile(file string) error {
	var cnf Configuration
	_, err := os.Stat(file)
	if err == nil {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		err = json.NewDecoder(f).Decode(&cnf)
		if err != nil {
			return err
		}

	} else if errors.Is(err, os.ErrNotExist) {
		log.Println("config json not passed, will use env variables")
	}

	// override config from environment variables
	err = envconfig.Process("reckon", &cnf)
	if err != nil {
		return err
	}

	err = cnf.validateAndAddDefaults()
	if err != nil {
		return err
	}

	ConfigStore.Store(&cnf)
	return err
}

func InitConfig(configFile string) error {
	logger()
	return loadConfigFromFile(configFile)
}

func Fetch() (*Configuration, error) {
	config := ConfigStore.Load()
	c, ok := config.(*Configuration)
	if !ok {
		return nil, errors.New("config not loaded from file. Create a json file called reckon.json with your config")
	}
	return c, nil
}

func (cnf *Configuration) validateAndAddDefaults() error {
	if cnf.ProjectName == "" {
		log.Println("Warning: Project name is empty. Setting a default name.")
		cnf.ProjectName = "Reckon Server"
	}

	if cnf.DataSource.Dns == "" {
		log.Println("Error: Data source DNS is empty. It's a required field.")
		return errors.New("data source DNS is required")
	}

	if cnf.Redis.Dns == "" {
		log.Println("Error: Redis DNS is empty. It's a required field.")
		return errors.New("redis DNS is required")
	}

	// Trim white spaces from fields
	cnf.ProjectName = strings.TrimSpace(cnf.ProjectName)
	cnf.Server.Port = strings.TrimSpace(cnf.Server.Port)
	cnf.DataSource.Dns = strings.TrimSpace(cnf.DataSource.Dns)
	cnf.Redis.Dns = strings.TrimSpace(cnf.Redis.Dns)

	if cnf.Server.Port == "" {
		cnf.Server.Port = DEFAULT_PORT
		log.Printf("Warning: Port not specified in config. Setting default port: %s", DEFAULT_PORT)
	}

	// Rate limiting is disabled by default (when both RPS and Burst are nil)
	if cnf.RateLimit.RequestsPerSecond != nil && cnf.RateLimit.Burst == nil {
		defaultBurst := 2 * int(*cnf.RateLimit.RequestsPerSecond)
		cnf.RateLimit.Burst = &defaultBurst
		log.Printf("Warning: Rate limit burst not specified. Setting default value: %d", defaultBurst)
	}
	if cnf.RateLimit.RequestsPerSecond == nil && cnf.RateLimit.Burst != nil {
		defaultRPS := float64(*cnf.RateLimit.Burst) / 2
		cnf.RateLimit.RequestsPerSecond = &defaultRPS
		log.Printf("Warning: Rate limit RPS not specified. Setting default value: %.2f", defaultRPS)
	}
	if cnf.RateLimit.CleanupIntervalSec == nil {
		defaultCleanup := 10800 // 3 hours in seconds
		cnf.RateLimit.CleanupIntervalSec = &defaultCleanup
	}

	if cnf.Reconciliation.LockDurationSec == nil {
		defaultLock := 30
		cnf.Reconciliation.LockDurationSec = &defaultLock
	}
	if cnf.Reconciliation.MaxStatementRows == nil {
		defaultRows := 10000
		cnf.Reconciliation.MaxStatementRows = &defaultRows
	}

	return nil
}

// MockConfig sets a mock configuration for testing purposes.
func MockConfig(mockConfig *Configuration) {
	if err := mockConfig.validateAndAddDefaults(); err != nil {
		log.Println(err)
	}
	ConfigStore.Store(mockConfig)
}

func logger() {
	logger := logrus.New()
	log.SetOutput(logger.Writer())
}

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

package reckon

import (
	"embed"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/reckon-ledger/reckon/config"
	"github.com/reckon-ledger/reckon/database"
	redis_db "github.com/reckon-ledger/reckon/internal/redis-db"
)

// Reckon is the reconciliation engine. All operations go through it; the
// datasource is its only view of storage and redis backs the per-report
// operation locks.
type Reckon struct {
	datasource database.IDataSource
	redis      redis.UniversalClient
}

//go:embed sql/*.sql
var SQLFiles embed.FS

// NewReckon initializes a new engine instance over the provided datasource.
func NewReckon(db database.IDataSource) (*Reckon, error) {
	configuration, err := config.Fetch()
	if err != nil {
		return nil, err
	}
	redisClient, err := redis_db.NewRedisClient([]string{fmt.Sprintf("redis://%s", configuration.Redis.Dns)})
	if err != nil {
		return nil, err
	}
	return &Reckon{datasource: db, redis: redisClient.Client()}, nil
}

// NewReckonWithRedis initializes an engine instance with an explicit redis
// client. Tests use it to inject miniredis.
func NewReckonWithRedis(db database.IDataSource, redisClient redis.UniversalClient) *Reckon {
	return &Reckon{datasource: db, redis: redisClient}
}

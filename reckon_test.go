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
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/reckon-ledger/reckon/config"
	"github.com/reckon-ledger/reckon/database/mocks"
	"github.com/reckon-ledger/reckon/model"
)

// newTestReckon wires the engine over a mock datasource and a miniredis
// instance for the report locks.
func newTestReckon(t *testing.T) (*Reckon, *mocks.MockDataSource) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("error starting miniredis: %s", err)
	}
	t.Cleanup(mr.Close)

	config.MockConfig(&config.Configuration{
		ProjectName: "Reckon Test",
		DataSource:  config.DataSourceConfig{Dns: "test-dns"},
		Redis:       config.RedisConfig{Dns: mr.Addr()},
	})

	mockDS := new(mocks.MockDataSource)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewReckonWithRedis(mockDS, client), mockDS
}

func testPeriod() model.AccountingPeriod {
	return model.NewAccountingPeriod(
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
	)
}

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

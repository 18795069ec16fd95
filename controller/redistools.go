// Copyright (c) 2025 Reza Arani
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package lethu

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

const redisIndexSuffix = "lethu_vector_idx"

// redisIndexName derives the vector index name from the store namespace.
func redisIndexName(namespace string) string {
	if ns := sanitizeKey(namespace); ns != "" {
		return ns + ":" + redisIndexSuffix
	}
	return redisIndexSuffix
}

func newRedisClient(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return redis.NewClient(opts), nil
}

// pingRedis checks that the redis server answers before the vector store is built on it.
func pingRedis(ctx context.Context, redisURL string) error {
	client, err := newRedisClient(redisURL)
	if err != nil {
		return err
	}
	defer client.Close()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("unable to connect to redis host: %w", err)
	}
	return nil
}

// dropRedisIndex removes the vector index together with its documents.
// A missing index is not an error.
func dropRedisIndex(ctx context.Context, redisURL, indexName string) error {
	client, err := newRedisClient(redisURL)
	if err != nil {
		return err
	}
	defer client.Close()

	err = client.Do(ctx, "FT.DROPINDEX", indexName, "DD").Err()
	if err != nil && !strings.Contains(strings.ToLower(err.Error()), "unknown index") &&
		!strings.Contains(strings.ToLower(err.Error()), "no such index") {
		return fmt.Errorf("error dropping index %s: %w", indexName, err)
	}
	return nil
}

/* Copyright 2026 The Bindkit Authors
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package bolt is a storage.Registry backed by bbolt.
package bolt

import (
	"context"
	"log"
	"time"

	"github.com/bindkit/bindkit/storage"

	bolt "go.etcd.io/bbolt"
)

var bucketName = []byte("rulesets")

// Registry is a bbolt-backed storage.Registry.
type Registry struct {
	Debug    bool
	filename string
	db       *bolt.DB
}

func NewRegistry(filename string) *Registry {
	return &Registry{
		filename: filename,
	}
}

func (r *Registry) Open() error {
	opts := &bolt.Options{
		Timeout: time.Second,
	}

	db, err := bolt.Open(r.filename, 0644, opts)
	if err != nil {
		return err
	}
	r.db = db

	return db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
}

func (r *Registry) Close() error {
	return r.db.Close()
}

func (r *Registry) logf(format string, args ...interface{}) {
	if r.Debug {
		log.Printf("bolt.Registry."+format, args...)
	}
}

func (r *Registry) Put(ctx context.Context, id string, source []byte) error {
	r.logf("Put %s (%d bytes)", id, len(source))
	return r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(id), source)
	})
}

func (r *Registry) Get(ctx context.Context, id string) ([]byte, error) {
	r.logf("Get %s", id)
	var source []byte
	err := r.db.View(func(tx *bolt.Tx) error {
		stored := tx.Bucket(bucketName).Get([]byte(id))
		if stored == nil {
			return storage.NotFound
		}
		// The slice is only valid inside the transaction.
		source = make([]byte, len(stored))
		copy(source, stored)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return source, nil
}

func (r *Registry) List(ctx context.Context) ([]string, error) {
	r.logf("List")
	ids := make([]string, 0, 32)
	err := r.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketName).Cursor()
		for id, _ := c.First(); id != nil; id, _ = c.Next() {
			ids = append(ids, string(id))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *Registry) Rem(ctx context.Context, id string) (bool, error) {
	r.logf("Rem %s", id)
	had := false
	err := r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		if b.Get([]byte(id)) != nil {
			had = true
		}
		return b.Delete([]byte(id))
	})
	return had, err
}

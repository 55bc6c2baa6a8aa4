// Copyright 2025 Alibaba Group Holding Ltd.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"os"

	_ "go.uber.org/automaxprocs/maxprocs"

	"github.com/storageindex/indexd/pkg/auth"
	"github.com/storageindex/indexd/pkg/config"
	"github.com/storageindex/indexd/pkg/log"
	"github.com/storageindex/indexd/pkg/store"
	"github.com/storageindex/indexd/pkg/web"
)

// main initializes and starts the indexd server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to load configuration: %v", err)
		os.Exit(1)
	}

	log.SetLevel(cfg.LogLevel)

	st := store.New(cfg.StorageRoot)
	if err := st.EnsureRoot(); err != nil {
		log.Error("failed to prepare storage root %s: %v", cfg.StorageRoot, err)
		os.Exit(1)
	}

	gate := auth.NewGate(cfg.ProtectedRoutes, st)

	engine := web.NewRouter(&web.Deps{Config: cfg, Store: st, Gate: gate})
	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Info("indexd serving %s on %s", cfg.StorageRoot, addr)
	if err := engine.Run(addr); err != nil {
		log.Error("failed to start indexd server: %v", err)
	}
}

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

package controller

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/disk"
	"github.com/shirou/gopsutil/mem"

	"github.com/storageindex/indexd/pkg/web/model"
)

// MetricController handles system metrics requests
type MetricController struct {
	*basicController
	deps *Deps
}

func NewMetricController(ctx *gin.Context, deps *Deps) *MetricController {
	return &MetricController{basicController: newBasicController(ctx), deps: deps}
}

// GetMetrics returns current system metrics
func (c *MetricController) GetMetrics() {
	metrics, err := c.readMetrics()
	if err != nil {
		c.RespondError(
			http.StatusInternalServerError,
			model.ErrorCodeInternalError,
			fmt.Sprintf("error reading runtime metrics. %v", err),
		)
		return
	}

	c.RespondSuccess(metrics)
}

// readMetrics collects CPU and memory usage plus the capacity of the
// volume holding the storage root
func (c *MetricController) readMetrics() (*model.Metrics, error) {
	metric := model.NewMetrics()

	metric.CpuCount = float64(runtime.GOMAXPROCS(-1))
	cpuPercent, err := cpu.Percent(time.Second, false)
	if err != nil {
		return nil, fmt.Errorf("failed to get CPU percent: %w", err)
	}
	if len(cpuPercent) > 0 {
		metric.CpuUsedPct = cpuPercent[0]
	}

	vmStat, err := mem.VirtualMemory()
	if err != nil {
		return nil, fmt.Errorf("failed to get memory info: %w", err)
	}
	metric.MemTotalMiB = float64(vmStat.Total) / 1024 / 1024
	metric.MemUsedMiB = float64(vmStat.Used) / 1024 / 1024

	usage, err := disk.Usage(c.deps.Config.StorageRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to get disk usage: %w", err)
	}
	metric.DiskTotalMiB = float64(usage.Total) / 1024 / 1024
	metric.DiskUsedMiB = float64(usage.Used) / 1024 / 1024

	return metric, nil
}

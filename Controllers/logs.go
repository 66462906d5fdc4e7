package Controllers

import (
	"bufio"
	"encoding/json"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"Podium/middleware"
)

const requestLogPath = "logs/requests.log"

// LogGroup aggregates request logs by path and method
type LogGroup struct {
	Path        string  `json:"path"`
	Method      string  `json:"method"`
	Count       int     `json:"count"`
	AvgLatency  float64 `json:"avg_latency_ms"`
	SuccessRate float64 `json:"success_rate"`
}

func readRequestLogs(from, to time.Time) ([]middleware.LogData, error) {
	file, err := os.Open(requestLogPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	var entries []middleware.LogData
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var entry middleware.LogData
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			continue
		}
		if !from.IsZero() && entry.Timestamp.Before(from) {
			continue
		}
		if !to.IsZero() && entry.Timestamp.After(to) {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, scanner.Err()
}

// GetLogs returns recent request logs, newest first, paginated.
func GetLogs(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.Query("page_size", "50"))
	if pageSize < 1 || pageSize > 500 {
		pageSize = 50
	}

	var from, to time.Time
	if raw := c.Query("from"); raw != "" {
		from, _ = time.Parse("2006-01-02", raw)
	}
	if raw := c.Query("to"); raw != "" {
		to, _ = time.Parse("2006-01-02", raw)
	}

	entries, err := readRequestLogs(from, to)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read logs",
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})

	total := len(entries)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return c.JSON(fiber.Map{
		"logs":       entries[start:end],
		"total_logs": total,
		"page":       page,
		"page_size":  pageSize,
	})
}

// GetLogStats returns per-route aggregates over the request log.
func GetLogStats(c *fiber.Ctx) error {
	entries, err := readRequestLogs(time.Time{}, time.Time{})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read logs",
		})
	}

	type agg struct {
		count      int
		latencySum time.Duration
		successes  int
	}
	byRoute := make(map[string]*agg)
	for _, entry := range entries {
		key := entry.Method + " " + entry.Path
		a, ok := byRoute[key]
		if !ok {
			a = &agg{}
			byRoute[key] = a
		}
		a.count++
		a.latencySum += entry.Latency
		if entry.Status < 400 {
			a.successes++
		}
	}

	groups := make([]LogGroup, 0, len(byRoute))
	for key, a := range byRoute {
		method, path := key, ""
		for i := 0; i < len(key); i++ {
			if key[i] == ' ' {
				method, path = key[:i], key[i+1:]
				break
			}
		}
		groups = append(groups, LogGroup{
			Path:        path,
			Method:      method,
			Count:       a.count,
			AvgLatency:  float64(a.latencySum.Milliseconds()) / float64(a.count),
			SuccessRate: float64(a.successes) / float64(a.count) * 100,
		})
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Count > groups[j].Count
	})

	return c.JSON(fiber.Map{
		"groups":       groups,
		"total_logs":   len(entries),
		"total_groups": len(groups),
	})
}

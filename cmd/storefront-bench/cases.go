// README: Bench cases: infrastructure reachability, the cart → quote → checkout flow, and quote throughput.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Status string

const (
	StatusPass Status = "PASS"
	StatusFail Status = "FAIL"
	StatusSkip Status = "SKIP"
)

var requiredTables = []string{"delivery_settings", "currency_rates"}

type Runner struct {
	cfg   Config
	httpc *http.Client
	db    *pgxpool.Pool
	redis *redis.Client

	// cartID is shared by the flow cases, which run in order.
	cartID string
}

type Result struct {
	Status  Status
	Latency time.Duration
	Note    string
}

type TestCase struct {
	Name string
	Run  func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 10 * time.Second},
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.DSN != "" {
		if db, err := pgxpool.New(ctx, r.cfg.DSN); err == nil {
			r.db = db
			defer db.Close()
		}
	}
	if r.cfg.RedisURL != "" {
		if opts, err := redis.ParseURL(r.cfg.RedisURL); err == nil {
			r.redis = redis.NewClient(opts)
			defer r.redis.Close()
		}
	}

	tests := r.cases()
	results := make([]Result, 0, len(tests))
	for _, tc := range tests {
		res := tc.Run(ctx, r)
		results = append(results, res)
		fmt.Printf("%-5s %s", res.Status, tc.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency)
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}
	return results
}

func (r *Runner) store() map[string]any {
	return map[string]any{"lat": r.cfg.StoreLat, "lng": r.cfg.StoreLng}
}

func (r *Runner) cases() []TestCase {
	return []TestCase{
		{Name: "Env: Postgres connect", Run: pingPostgres},
		{Name: "Env: Redis connect", Run: pingRedis},
		{Name: "Schema: tables exist", Run: tablesExist},
		{Name: "API: health", Run: func(ctx context.Context, r *Runner) Result {
			res, _ := r.call(ctx, http.MethodGet, "/health", nil, nil, http.StatusOK)
			return res
		}},

		{Name: "Cart: create", Run: func(ctx context.Context, r *Runner) Result {
			var out struct {
				ID string `json:"id"`
			}
			res, _ := r.call(ctx, http.MethodPost, "/api/carts", nil, &out, http.StatusCreated)
			r.cartID = out.ID
			return res
		}},
		{Name: "Cart: add wholesale box", Run: func(ctx context.Context, r *Runner) Result {
			if r.cartID == "" {
				return Result{Status: StatusSkip, Note: "no cart"}
			}
			res, _ := r.call(ctx, http.MethodPost, "/api/carts/"+r.cartID+"/items", map[string]any{
				"product_id": "bench-caja", "name": "Bench box", "unit_price": 12,
				"quantity": 3, "variations": map[string]string{"presentacion": "Caja"},
			}, nil, http.StatusOK)
			return res
		}},
		{Name: "Delivery: quote from cart at store door -> car/van base rate", Run: func(ctx context.Context, r *Runner) Result {
			if r.cartID == "" {
				return Result{Status: StatusSkip, Note: "no cart"}
			}
			body := r.store()
			body["cart_id"] = r.cartID
			var q struct {
				Vehicle    string `json:"vehicle_tier"`
				FinalPrice int64  `json:"final_price"`
			}
			res, err := r.call(ctx, http.MethodPost, "/api/delivery/quote", body, &q, http.StatusOK)
			if err != nil {
				return res
			}
			// 30 points at distance 0 is a car/van quote at its base rate
			if q.Vehicle != "car_van" {
				return Result{Status: StatusFail, Latency: res.Latency, Note: "vehicle=" + q.Vehicle}
			}
			res.Note = fmt.Sprintf("final_price=%d", q.FinalPrice)
			return res
		}},
		{Name: "Checkout: pickup hand-off", Run: func(ctx context.Context, r *Runner) Result {
			if r.cartID == "" {
				return Result{Status: StatusSkip, Note: "no cart"}
			}
			res, _ := r.call(ctx, http.MethodPost, "/api/checkout", map[string]any{
				"cart_id": r.cartID, "customer_name": "Bench", "phone": "0000", "method": "pickup",
			}, nil, http.StatusOK)
			return res
		}},

		{Name: "Delivery: invalid coordinates -> 400", Run: func(ctx context.Context, r *Runner) Result {
			res, _ := r.call(ctx, http.MethodPost, "/api/delivery/quote", map[string]any{"lat": 123.0, "lng": 456.0}, nil, http.StatusBadRequest)
			return res
		}},
		{Name: "Currency: format USD", Run: func(ctx context.Context, r *Runner) Result {
			res, _ := r.call(ctx, http.MethodGet, "/api/currency/format?amount=100&currency=USD", nil, nil, http.StatusOK)
			return res
		}},
		{Name: "Admin: no token -> 401", Run: func(ctx context.Context, r *Runner) Result {
			res, _ := r.call(ctx, http.MethodGet, "/api/admin/delivery/settings", nil, nil, http.StatusUnauthorized)
			return res
		}},

		{Name: "Concurrency: identical quotes agree", Run: concurrentQuotes},
		{Name: "Perf: quote throughput", Run: perfQuotes},
	}
}

func pingPostgres(ctx context.Context, r *Runner) Result {
	if r.db == nil {
		return Result{Status: StatusFail, Note: "db not configured"}
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := r.db.Ping(ctx); err != nil {
		return Result{Status: StatusFail, Note: err.Error()}
	}
	return Result{Status: StatusPass}
}

func pingRedis(ctx context.Context, r *Runner) Result {
	if r.redis == nil {
		return Result{Status: StatusFail, Note: "redis not configured"}
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := r.redis.Ping(ctx).Err(); err != nil {
		return Result{Status: StatusFail, Note: err.Error()}
	}
	return Result{Status: StatusPass}
}

func tablesExist(ctx context.Context, r *Runner) Result {
	if r.db == nil {
		return Result{Status: StatusFail, Note: "db not configured"}
	}
	for _, t := range requiredTables {
		var exists bool
		err := r.db.QueryRow(ctx,
			"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name=$1)",
			t,
		).Scan(&exists)
		if err != nil {
			return Result{Status: StatusFail, Note: err.Error()}
		}
		if !exists {
			return Result{Status: StatusFail, Note: "missing table: " + t}
		}
	}
	return Result{Status: StatusPass}
}

// call sends body as JSON, decodes the response into out when non-nil and
// passes when the status equals want.
func (r *Runner) call(ctx context.Context, method, path string, body, out any, want int) (Result, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return Result{Status: StatusFail, Note: err.Error()}, err
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, r.cfg.BaseURL+path, reader)
	if err != nil {
		return Result{Status: StatusFail, Note: err.Error()}, err
	}
	req.Header.Set("Content-Type", "application/json")
	start := time.Now()
	resp, err := r.httpc.Do(req)
	if err != nil {
		return Result{Status: StatusFail, Note: err.Error()}, err
	}
	defer resp.Body.Close()
	latency := time.Since(start)

	if resp.StatusCode != want {
		_, _ = io.Copy(io.Discard, resp.Body)
		err := fmt.Errorf("status=%d", resp.StatusCode)
		return Result{Status: StatusFail, Latency: latency, Note: err.Error()}, err
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return Result{Status: StatusFail, Latency: latency, Note: err.Error()}, err
		}
	}
	return Result{Status: StatusPass, Latency: latency, Note: fmt.Sprintf("status=%d", resp.StatusCode)}, nil
}

func (r *Runner) quoteBody() map[string]any {
	body := r.store()
	body["lat"] = r.cfg.StoreLat + 0.1
	body["lines"] = []map[string]any{{"product_id": "bench", "unit_price": 5, "quantity": 30}}
	return body
}

func concurrentQuotes(ctx context.Context, r *Runner) Result {
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		prices = map[int64]int{}
		errs   int
	)
	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var q struct {
				FinalPrice int64 `json:"final_price"`
			}
			_, err := r.call(ctx, http.MethodPost, "/api/delivery/quote", r.quoteBody(), &q, http.StatusOK)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs++
				return
			}
			prices[q.FinalPrice]++
		}()
	}
	wg.Wait()

	if errs > 0 {
		return Result{Status: StatusFail, Note: fmt.Sprintf("errors=%d", errs)}
	}
	if len(prices) != 1 {
		return Result{Status: StatusFail, Note: fmt.Sprintf("distinct prices=%d", len(prices))}
	}
	return Result{Status: StatusPass, Note: fmt.Sprintf("requests=%d", r.cfg.Concurrency)}
}

func perfQuotes(ctx context.Context, r *Runner) Result {
	b, _ := json.Marshal(r.quoteBody())
	end := time.Now().Add(r.cfg.Duration)
	var (
		count, errCount int64
		mu              sync.Mutex
		wg              sync.WaitGroup
	)
	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) && ctx.Err() == nil {
				req, _ := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.BaseURL+"/api/delivery/quote", bytes.NewReader(b))
				req.Header.Set("Content-Type", "application/json")
				resp, err := r.httpc.Do(req)
				mu.Lock()
				if err != nil {
					errCount++
					mu.Unlock()
					continue
				}
				count++
				mu.Unlock()
				_, _ = io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
			}
		}()
	}
	wg.Wait()

	if count == 0 {
		return Result{Status: StatusFail, Note: "no requests completed"}
	}
	rps := float64(count) / r.cfg.Duration.Seconds()
	return Result{Status: StatusPass, Note: fmt.Sprintf("rps=%.1f errors=%d", rps, errCount)}
}

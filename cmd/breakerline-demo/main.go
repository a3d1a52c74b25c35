// Command breakerline-demo wires a CircuitBreaker-decorated HTTP
// invoker against a flaky local server and exposes the live Hystrix
// dashboard stream on :8080, purely for manual exercising. It is not
// part of this module's supported API surface.
package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"time"

	"go.uber.org/zap"

	"github.com/efritz/breakerline"
	"github.com/efritz/breakerline/httpinvoker"
	"github.com/efritz/breakerline/hystrixstream"
)

func main() {
	flaky := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rand.Intn(3) == 0 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"ok":true}`)
	}))
	defer flaky.Close()

	zapLogger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal(err)
	}

	collector := hystrixstream.NewCollector()
	collector.Start()
	defer collector.Stop()

	config, err := breakerline.NewCircuitBreakerConfigBuilder("demo-service").
		MinimumRequestThreshold(5).
		FailureRateThreshold(0.4).
		WithLogger(breakerline.NewZapLogger(zapLogger)).
		WithCollector(breakerline.NamedCollector("demo-service", collector)).
		Build()
	if err != nil {
		log.Fatal(err)
	}

	invoker := breakerline.Decorate(config)(httpinvoker.NewInvoker(flaky.Client()))
	codec := httpinvoker.JSONCodec{Logger: breakerline.NewZapLogger(zapLogger)}

	go http.ListenAndServe(":8080", collector.Handler())

	for {
		result := invoker.Invoke(context.Background(), flaky.URL, codec, "ping", nil).Result()
		zapLogger.Sugar().Infow("call completed", "success", result.Success)
		time.Sleep(200 * time.Millisecond)
	}
}

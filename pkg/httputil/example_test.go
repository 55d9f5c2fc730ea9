package httputil_test

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/caiwu/pkg/httputil"
	"github.com/wonny/caiwu/pkg/logger"
)

// Example_vendorClient shows the setup used for statement vendors:
// custom timeout, retry, in-process rate limit and a Referer header.
func Example_vendorClient() {
	client := httputil.NewWithTimeout(logger.Nop(), 15*time.Second).
		WithRetry(3, 500*time.Millisecond).
		WithRPS(5).
		WithHeader("Referer", "https://emweb.securities.eastmoney.com/")

	var payload map[string]any
	err := client.GetJSON(context.Background(), "https://api.example.com/data", &payload)
	if err != nil {
		fmt.Printf("Request failed: %v\n", err)
		return
	}

	fmt.Println(len(payload))
}

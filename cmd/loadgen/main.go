package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"runtime/pprof"
	"time"

	"github.com/shopspring/decimal"

	"stockmarket/engine"
)

func main() {
	totalOrders := flag.Int("orders", 500000, "number of orders to submit")
	priceLevels := flag.Int64("price-levels", 200, "unique price levels around the mid")
	basePrice := flag.Int64("base-price", 10000, "mid price used for randomization")
	maxQty := flag.Int64("max-qty", 5, "maximum order quantity")
	seed := flag.Int64("seed", time.Now().UnixNano(), "seed for deterministic random streams")
	cpuProfile := flag.String("cpuprofile", "", "write cpu profile to file")
	memProfile := flag.String("memprofile", "", "write heap profile to file")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			panic(err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			panic(err)
		}
		defer pprof.StopCPUProfile()
	}

	market := engine.NewMarket()

	start := time.Now()
	for i := 0; i < *totalOrders; i++ {
		side, price, quantity := nextRandomOrder(rng, *basePrice, *priceLevels, *maxQty)
		market.EnqueueOrder(side, price, quantity)
	}
	elapsed := time.Since(start)

	matches := len(market.Trades())
	resting := 0
	for _, order := range market.Orders() {
		if order.Quantity.IsPositive() {
			resting++
		}
	}

	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err == nil {
			defer f.Close()
			_ = pprof.WriteHeapProfile(f)
		}
	}

	ordersPerSec := float64(*totalOrders) / elapsed.Seconds()
	tradesPerSec := float64(matches) / elapsed.Seconds()

	fmt.Printf("submitted %d orders in %s (%.0f orders/s)\n", *totalOrders, elapsed.Truncate(time.Millisecond), ordersPerSec)
	fmt.Printf("matched %d trades (%.0f trades/s), %d orders still resting\n", matches, tradesPerSec, resting)
}

func nextRandomOrder(rng *rand.Rand, mid, width, maxQty int64) (engine.Side, decimal.Decimal, decimal.Decimal) {
	side := engine.Side(rng.Intn(2))
	var price int64
	if side == engine.Buy {
		price = mid + rng.Int63n(width)
	} else {
		offset := rng.Int63n(width)
		if mid > offset {
			price = mid - offset
		} else {
			price = 1
		}
	}

	qty := rng.Int63n(maxQty) + 1
	return side, decimal.NewFromInt(price), decimal.NewFromInt(qty)
}

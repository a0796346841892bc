// tradecli exercises a running exchanged instance end to end: it lists the
// stocks, offers a few new ones (including a deliberate duplicate), follows
// one ticker for a while, then streams a handful of random orders and prints
// the executions.
//
// Usage: go run ./cmd/tradecli --server localhost:8080
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"github.com/avoronin/exchange-sim/internal/protocol"
)

func main() {
	exitCode := 0
	defer func() {
		os.Exit(exitCode)
	}()

	server := flag.String("server", "localhost:8080", "the server to connect in format <host>:<port>")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, os.Interrupt)
	defer cancel()

	// Get the list of stocks
	stocks, err := listStocks(ctx, *server)
	if err != nil {
		fmt.Println(err)
		exitCode = 1
		return
	}
	if len(stocks) == 0 {
		fmt.Println("The exchange has no stocks")
		exitCode = 1
		return
	}
	fmt.Println()

	// Choose a random stock
	stock := stocks[rand.Intn(len(stocks))]
	fmt.Printf("We've chosen %s\n\n", stock.Ticker)

	// Offer some stocks with a duplicate to check it is rejected
	if err := offerStocks(ctx, *server, []protocol.Stock{
		{Ticker: "TSM", Description: "Taiwan Semiconductor Manufacturing"},
		stock,
		{Ticker: "NVO", Description: "Novo Nordisk A/S"},
	}); err != nil {
		fmt.Println(err)
		exitCode = 1
		return
	}
	fmt.Println()

	// Track the price of the chosen stock
	avg, err := trackPrice(ctx, *server, stock.Ticker, 15*time.Second)
	if err != nil {
		fmt.Println(err)
		exitCode = 1
		return
	}
	fmt.Printf("The average price is %.2f\n\n", float64(avg)/100)

	// Do some trading
	if err := trade(ctx, *server, stock.Ticker, avg); err != nil {
		fmt.Println(err)
		exitCode = 1
	}
}

func listStocks(ctx context.Context, server string) ([]protocol.Stock, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+server+"/v1/stocks", nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var list protocol.ListResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, err
	}

	fmt.Println("Available stocks:")
	for _, s := range list.Stocks {
		fmt.Printf("  %s  %s\n", s.Ticker, s.Description)
	}
	return list.Stocks, nil
}

func offerStocks(ctx context.Context, server string, stocks []protocol.Stock) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, "ws://"+server+"/v1/offer", nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	for _, stock := range stocks {
		offer := protocol.OfferRequest{
			Type:         protocol.TypeOffer,
			Ticker:       stock.Ticker,
			Description:  stock.Description,
			InitialPrice: rand.Intn(7000) + 1000,
		}
		fmt.Printf("Offering %s for %.2f\n", offer.Ticker, float64(offer.InitialPrice)/100)
		if err := conn.WriteJSON(offer); err != nil {
			return err
		}
	}
	if err := conn.WriteJSON(protocol.Envelope{Type: protocol.TypeDone}); err != nil {
		return err
	}

	var summary protocol.OfferSummary
	if err := conn.ReadJSON(&summary); err != nil {
		return err
	}

	if len(summary.Listed) == 0 {
		fmt.Println("No stocks have been listed")
	} else {
		var listed []string
		for _, s := range summary.Listed {
			listed = append(listed, s.Ticker)
		}
		fmt.Printf("The following stocks have been listed: %s\n", strings.Join(listed, ", "))
	}
	for _, s := range summary.Rejected {
		fmt.Printf("%s has been rejected: %s\n", s.Ticker, s.Description)
	}
	return nil
}

func trackPrice(ctx context.Context, server, ticker string, window time.Duration) (int, error) {
	url := fmt.Sprintf("ws://%s/v1/follow?ticker=%s&interval=2s", server, ticker)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	fmt.Printf("Tracking the price of %s for %v\n", ticker, window)
	conn.SetReadDeadline(time.Now().Add(window))

	sum, count := 0, 0
	for {
		var tick protocol.PriceTick
		if err := conn.ReadJSON(&tick); err != nil {
			break
		}
		fmt.Printf("%s %.2f\n", tick.Ticker, float64(tick.Price)/100)
		sum += tick.Price
		count++

		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		default:
		}
	}

	if count == 0 {
		return 0, fmt.Errorf("no price snapshots received for %s", ticker)
	}
	return sum / count, nil
}

func trade(ctx context.Context, server, ticker string, avgPrice int) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, "ws://"+server+"/v1/trade", nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	numOrders := rand.Intn(8) + 3
	fmt.Printf("Making %d orders\n", numOrders)

	for i := 0; i < numOrders; i++ {
		amount := rand.Intn(10) + 1
		if rand.Intn(2) == 1 {
			amount = -amount
		}
		order := protocol.OrderRequest{
			Type:   protocol.TypeOrder,
			Ticker: ticker,
			Amount: amount,
		}
		// Randomly limit the price to the tracked average
		if rand.Intn(2) == 1 {
			limit := avgPrice
			order.LimitPrice = &limit
		}

		verb := "buy"
		if amount < 0 {
			verb = "sell"
		}
		if order.LimitPrice != nil {
			fmt.Printf("Placing an order to %s %d %s limited to %.2f\n",
				verb, abs(amount), ticker, float64(*order.LimitPrice)/100)
		} else {
			fmt.Printf("Placing an order to %s %d %s at the market price\n",
				verb, abs(amount), ticker)
		}

		if err := conn.WriteJSON(order); err != nil {
			return err
		}

		// Wait some time for price change
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
	fmt.Println()

	// Collect whatever executions arrive within a short window
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	executed := 0
	for executed < numOrders {
		var report protocol.ExecutionReport
		if err := conn.ReadJSON(&report); err != nil {
			break
		}
		fmt.Printf("Order %s: %s %+d at %.2f (%s)\n",
			report.Status, report.Ticker, report.Amount, float64(report.Price)/100, report.ID)
		executed++
	}
	fmt.Printf("%d of %d orders have been processed\n", executed, numOrders)

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	conn.WriteMessage(websocket.CloseMessage, msg)
	return nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

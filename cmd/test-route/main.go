package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/zack5769/saferide/internal/clients/routing"
	"github.com/zack5769/saferide/internal/config"
	"github.com/zack5769/saferide/internal/lib/export"
	"github.com/zack5769/saferide/internal/lib/format"
	"github.com/zack5769/saferide/internal/lib/geo"
	"github.com/zack5769/saferide/internal/lib/geolocation"
	"github.com/zack5769/saferide/internal/lib/navigation"
	"github.com/zack5769/saferide/internal/logging"
	"github.com/zack5769/saferide/internal/services"
)

func main() {
	var (
		baseURL  = flag.String("base-url", "", "Routing backend base URL (overrides config)")
		startLat = flag.Float64("start-lat", 34.7038, "Start latitude")
		startLng = flag.Float64("start-lng", 137.7350, "Start longitude")
		endLat   = flag.Float64("end-lat", 34.7158, "Destination latitude")
		endLng   = flag.Float64("end-lng", 137.7111, "Destination longitude")
		rain     = flag.Bool("rain", true, "Request a rain-avoiding route")
		current  = flag.Bool("current", false, "Start from the device position instead of -start-lat/-start-lng")
		locate   = flag.String("locate", "", "Device position as lat,lng for -current (unset uses the configured fallback)")
		simulate = flag.Bool("simulate", false, "Play the route back in the terminal")
		interval = flag.Duration("interval", 200*time.Millisecond, "Tick interval for -simulate")
		kmlOut   = flag.String("kml", "", "Write the route as KML to this file")
		verbose  = flag.Bool("v", false, "Debug logging")
		help     = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		fmt.Printf("Routing Backend Test Tool\n\n")
		fmt.Printf("Fetches a route through the fallback chain and optionally plays it back.\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nExamples:\n")
		fmt.Printf("  %s -base-url=http://127.0.0.1:5000\n", os.Args[0])
		fmt.Printf("  %s -rain=false -simulate -interval=100ms\n", os.Args[0])
		fmt.Printf("  %s -current -locate=34.7108,137.7261\n", os.Args[0])
		fmt.Printf("  SAFERIDE_ROUTING__BASE_URL=http://backend:5000 %s -kml=route.kml\n", os.Args[0])
		return
	}

	appConfig, err := config.Load("")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *baseURL != "" {
		appConfig.Routing.BaseURL = *baseURL
	}
	if *verbose {
		appConfig.Logging.Level = "debug"
		appConfig.Logging.Development = true
	} else {
		appConfig.Logging.Level = "warn"
	}

	logger, err := logging.New(appConfig.Logging)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	client := routing.NewClient(appConfig.Routing, logger)
	routeService := services.NewRouteService(appConfig.Routing, client, logger)

	var locator geolocation.Locator
	if *locate != "" {
		pos, err := parseLatLng(*locate)
		if err != nil {
			log.Fatalf("Invalid -locate: %v", err)
		}
		locator = geolocation.StaticLocator{Position: pos}
	}
	navigationService := services.NewNavigationService(routeService, locator, appConfig.Navigation, logger)

	start := geo.NewCoordinate(*startLng, *startLat)
	end := geo.NewCoordinate(*endLng, *endLat)
	req := services.PlanRequest{Destination: end, RainAvoidance: *rain}
	if !*current {
		req.Origin = &start
	}

	fmt.Printf("Routing Backend Test\n")
	fmt.Printf("====================\n")
	fmt.Printf("Backend: %s\n", appConfig.Routing.BaseURL)

	ctx := context.Background()
	plan, err := navigationService.Plan(ctx, req)
	if err != nil {
		if errors.Is(err, routing.ErrRouteUnreachable) {
			log.Fatalf("❌ No route: %v", err)
		}
		log.Fatalf("Plan failed: %v", err)
	}

	start = plan.Origin
	if plan.LocationWarning != nil {
		fmt.Printf("⚠️  %v, starting from %s\n", plan.LocationWarning, start)
	}
	fmt.Printf("URL: %s\n", client.RouteURL(start, end, *rain))
	fmt.Printf("Straight-line distance: %s\n", format.Distance(geo.Between(start, end)))
	fmt.Printf("\n")

	result, path := plan.Result, plan.Path
	if result.Degraded() {
		fmt.Printf("⚠️  Backend unavailable, using %s route\n", result.Source)
	} else {
		fmt.Printf("✅ Route received from backend\n")
	}
	fmt.Printf("Distance: %s\n", format.Distance(path.Distance))
	fmt.Printf("Time: %s\n", format.Duration(path.Time))
	fmt.Printf("Coordinates: %d\n", len(path.Coordinates()))
	fmt.Printf("Rain tiles: %d\n", len(result.Response.RainTiles))
	fmt.Printf("\nInstructions:\n")
	for i, in := range path.Instructions {
		fmt.Printf("  %2d. [%-12s] %-40s %8s  %s\n", i+1, in.Sign, in.Text, format.Distance(in.Distance), in.StreetName)
	}

	if *kmlOut != "" {
		f, err := os.Create(*kmlOut)
		if err != nil {
			log.Fatalf("Failed to create %s: %v", *kmlOut, err)
		}
		if err := export.WriteKML(f, path, result.Response.RainTiles, fmt.Sprintf("%s → %s", start, end)); err != nil {
			f.Close()
			log.Fatalf("KML export failed: %v", err)
		}
		if err := f.Close(); err != nil {
			log.Fatalf("Failed to close %s: %v", *kmlOut, err)
		}
		fmt.Printf("\nKML written to %s\n", *kmlOut)
	}

	if !*simulate {
		return
	}

	fmt.Printf("\nSimulating (Ctrl-C to stop)...\n")
	done := make(chan struct{})
	sim, err := navigation.NewSimulator(path,
		navigation.WithInterval(*interval),
		navigation.WithListener(func(s navigation.State) {
			fmt.Printf("  [%5.1f%%] coord %3d  instr %2d  next %8s  remaining %8s / %s\n",
				s.ProgressPercent, s.CoordinateIndex, s.InstructionIndex,
				format.Distance(s.DistanceToNextInstruction),
				format.Distance(float64(s.RemainingDistance)),
				format.Duration(s.RemainingTime))
			if s.IsComplete {
				close(done)
			}
		}))
	if err != nil {
		log.Fatalf("Failed to create simulator: %v", err)
	}

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	if err := sim.Start(ctx); err != nil {
		log.Fatalf("Failed to start simulation: %v", err)
	}

	select {
	case <-done:
		fmt.Printf("✅ Arrived\n")
	case <-sigCtx.Done():
		sim.Stop()
		fmt.Printf("Stopped at coordinate %d\n", sim.State().CoordinateIndex)
	}
}

// parseLatLng parses "lat,lng"
func parseLatLng(raw string) (geo.Coordinate, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return geo.Coordinate{}, fmt.Errorf("expected lat,lng but got %q", raw)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("invalid latitude: %s", parts[0])
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("invalid longitude: %s", parts[1])
	}
	return geo.NewCoordinate(lng, lat), nil
}

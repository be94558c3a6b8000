package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"servihub/internal/config"
	"servihub/internal/domain"
	"servihub/internal/domain/model"
	"servihub/internal/domain/ports/repository"
	pg "servihub/internal/infra/db/postgres"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	adminEmail := flag.String("admin-email", "admin@servihub.local", "bootstrap admin email")
	adminPassword := flag.String("admin-password", "admin123", "bootstrap admin password")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	adminRepo := pg.NewAdminRepo(pool)
	channelRepo := pg.NewChannelRepo(pool)
	serviceRepo := pg.NewServiceRepo(pool)
	planRepo := pg.NewPlanRepo(pool)

	// ---- default admin ----
	if _, err := adminRepo.FindByEmail(ctx, repository.NoTX, *adminEmail); errors.Is(err, domain.ErrNotFound) {
		hash, err := bcrypt.GenerateFromPassword([]byte(*adminPassword), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("hash admin password: %v", err)
		}
		admin, err := model.NewAdmin("", *adminEmail, string(hash))
		if err != nil {
			log.Fatalf("new admin: %v", err)
		}
		if err := adminRepo.Save(ctx, repository.NoTX, admin); err != nil {
			log.Fatalf("save admin: %v", err)
		}
		fmt.Printf("seeded admin: %s\n", admin.Email)
	} else if err != nil {
		log.Fatalf("find admin: %v", err)
	} else {
		fmt.Printf("admin %s already present. No changes.\n", *adminEmail)
	}

	// ---- payment channels ----
	existing, err := channelRepo.ListAll(ctx, repository.NoTX)
	if err != nil {
		log.Fatalf("list channels: %v", err)
	}
	have := map[string]bool{}
	for _, c := range existing {
		have[c.Name] = true
	}
	for _, name := range []string{"bKash", "Nagad", "Rocket"} {
		if have[name] {
			continue
		}
		ch, err := model.NewPaymentChannel("", name)
		if err != nil {
			log.Fatalf("new channel %q: %v", name, err)
		}
		if err := channelRepo.Save(ctx, repository.NoTX, ch); err != nil {
			log.Fatalf("save channel %q: %v", name, err)
		}
		fmt.Printf("seeded channel: %s\n", name)
	}

	// ---- sample services ----
	services, err := serviceRepo.ListAll(ctx, repository.NoTX)
	if err != nil {
		log.Fatalf("list services: %v", err)
	}
	if len(services) == 0 {
		for _, name := range []string{"Document Scan", "Priority Listing", "SMS Blast"} {
			svc, err := model.NewService("", name)
			if err != nil {
				log.Fatalf("new service %q: %v", name, err)
			}
			if err := serviceRepo.Save(ctx, repository.NoTX, svc); err != nil {
				log.Fatalf("save service %q: %v", name, err)
			}
			fmt.Printf("seeded service: %s\n", name)
		}
	} else {
		fmt.Printf("%d services already present. No changes.\n", len(services))
	}

	// ---- sample plans (prices in poisha) ----
	plans, err := planRepo.ListAll(ctx, repository.NoTX)
	if err != nil {
		log.Fatalf("list plans: %v", err)
	}
	if len(plans) == 0 {
		seed := []struct {
			Name  string
			Days  int
			Price int64
		}{
			{"Weekly", 7, 9_900},
			{"Monthly", 30, 29_900},
			{"Quarterly", 90, 79_900},
		}
		for _, s := range seed {
			p, err := model.NewSubscriptionPlan("", s.Name, s.Days, s.Price)
			if err != nil {
				log.Fatalf("new plan %q: %v", s.Name, err)
			}
			if err := planRepo.Save(ctx, repository.NoTX, p); err != nil {
				log.Fatalf("save plan %q: %v", s.Name, err)
			}
			fmt.Printf("seeded plan: %s (days=%d, price=%d poisha)\n", p.Name, p.DurationDays, p.Price)
		}
	} else {
		fmt.Printf("%d plans already present. No changes.\n", len(plans))
	}

	fmt.Println("Seeding complete.")
}

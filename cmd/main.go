package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"betting_service/internal/betting"
	"betting_service/internal/engine"
)

func main() {

	if err := godotenv.Load(); err != nil {
		fmt.Println("Error loading .env file", err)
	}

	var repo betting.Repository
	if dbConnStr := os.Getenv("DB_CONN_STR"); dbConnStr != "" {
		db, err := gorm.Open(postgres.Open(dbConnStr), &gorm.Config{})
		if err != nil {
			log.Fatalln(err)
		}
		if err := db.AutoMigrate(&betting.Game{}, &betting.Bet{}, &betting.Result{}, &betting.Winning{}); err != nil {
			log.Fatalln(err)
		}
		repo = betting.NewRepositoryImpl(db)
	} else {
		log.Println("DB_CONN_STR not set, using in-memory storage")
		repo = betting.NewMemoryRepository()
	}

	eng := engine.New()
	service := betting.NewService(repo, eng)

	if err := betting.SeedDefaultGames(context.Background(), repo); err != nil {
		log.Fatalln(err)
	}

	r := gin.Default()

	r.GET("/games", func(c *gin.Context) {
		games, err := repo.GetAllGames(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, games)
	})

	r.GET("/games/:type", func(c *gin.Context) {
		game, err := repo.GetGameByType(c.Request.Context(), c.Param("type"))
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, betting.ErrGameNotFound) {
				status = http.StatusNotFound
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, game)
	})

	r.POST("/bets", func(c *gin.Context) {
		var req betting.PlaceBetRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		bet, err := service.PlaceBet(c.Request.Context(), req)
		if err != nil {
			c.JSON(placeBetStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, bet)
	})

	r.GET("/bets", func(c *gin.Context) {
		bets, err := repo.GetAllBets(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, bets)
	})

	r.GET("/bets/:id", func(c *gin.Context) {
		bet, err := repo.GetBet(c.Request.Context(), c.Param("id"))
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, betting.ErrBetNotFound) {
				status = http.StatusNotFound
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, bet)
	})

	r.GET("/bets/search/:code", func(c *gin.Context) {
		betID, err := service.FindBetByCode(c.Request.Context(), c.Param("code"))
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, betting.ErrInvalidShortCode) {
				status = http.StatusBadRequest
			} else if errors.Is(err, betting.ErrBetNotFound) {
				status = http.StatusNotFound
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"bet_id": betID})
	})

	r.POST("/results", func(c *gin.Context) {
		var req betting.CreateResultRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		result, err := service.CreateResult(c.Request.Context(), req)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, betting.ErrGameNotFound) {
				status = http.StatusNotFound
			} else if errors.Is(err, betting.ErrOddsMismatch) || errors.Is(err, betting.ErrNoNumbersSelected) {
				status = http.StatusBadRequest
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, result)
	})

	r.GET("/results/game/:gameId", func(c *gin.Context) {
		results, err := repo.GetResultsByGame(c.Request.Context(), c.Param("gameId"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, results)
	})

	r.GET("/results/game/:gameId/latest", func(c *gin.Context) {
		result, err := repo.GetLatestResult(c.Request.Context(), c.Param("gameId"))
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, betting.ErrResultNotFound) {
				status = http.StatusNotFound
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, result)
	})

	r.POST("/results/generate/:gameId", func(c *gin.Context) {
		result, err := service.GenerateResult(c.Request.Context(), c.Param("gameId"))
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, betting.ErrGameNotFound) {
				status = http.StatusNotFound
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, result)
	})

	r.POST("/winnings/check/:betId", func(c *gin.Context) {
		resp, err := service.CheckWinning(c.Request.Context(), c.Param("betId"))
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, betting.ErrBetNotFound) ||
				errors.Is(err, betting.ErrResultNotFound) ||
				errors.Is(err, betting.ErrGameNotFound) {
				status = http.StatusNotFound
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, resp)
	})

	r.GET("/winnings", func(c *gin.Context) {
		winnings, err := repo.GetAllWinnings(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, winnings)
	})

	r.GET("/stats/today", func(c *gin.Context) {
		stats, err := eng.StatsForDate("")
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	r.GET("/stats/daily", func(c *gin.Context) {
		c.JSON(http.StatusOK, eng.AllStats())
	})

	r.GET("/stats/daily/:date", func(c *gin.Context) {
		stats, err := eng.StatsForDate(engine.DayKey(c.Param("date")))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	r.GET("/events", func(c *gin.Context) {
		c.JSON(http.StatusOK, eng.PayoutEvents())
	})

	r.GET("/config", func(c *gin.Context) {
		c.JSON(http.StatusOK, eng.Config())
	})

	r.PUT("/config", func(c *gin.Context) {
		var update engine.ConfigUpdate
		if err := c.ShouldBindJSON(&update); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		cfg, err := eng.UpdateConfig(update)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, cfg)
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	fmt.Println("Server started on :" + port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}

func placeBetStatus(err error) int {
	switch {
	case errors.Is(err, betting.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, betting.ErrNoNumbersSelected),
		errors.Is(err, betting.ErrTooManyNumbers),
		errors.Is(err, betting.ErrNumberOutOfRange),
		errors.Is(err, betting.ErrStakeTooSmall):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

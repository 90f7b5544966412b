package config

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB holds the database connections. Mongo is nil when MONGO_URI is unset.
type DB struct {
	Postgres *gorm.DB
	Mongo    *mongo.Client
}

// InitDB initializes and returns the database connections
func InitDB(cfg *Config) (*DB, error) {
	postgresDB, err := initPostgres(cfg.PostgresConnStr, cfg.IsProduction())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	db := &DB{Postgres: postgresDB}
	if cfg.MongoURI == "" {
		slog.Warn("MONGO_URI not set, booking history is disabled")
		return db, nil
	}

	mongoClient, err := initMongo(cfg.MongoURI)
	if err != nil {
		db.CloseDB()
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	db.Mongo = mongoClient

	return db, nil
}

// initPostgres initializes the PostgreSQL database connection using GORM
func initPostgres(connStr string, production bool) (*gorm.DB, error) {
	logLevel := logger.Info
	if production {
		logLevel = logger.Warn
	}
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logLevel,
			IgnoreRecordNotFoundError: true,
			Colorful:                  !production,
		},
	)

	db, err := gorm.Open(postgres.Open(connStr), &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Ping the database to verify connection
	if err = sqlDB.Ping(); err != nil {
		return nil, err
	}

	slog.Info("connected to PostgreSQL")
	return db, nil
}

// initMongo initializes the MongoDB connection
func initMongo(uri string) (*mongo.Client, error) {
	clientOptions := options.Client().ApplyURI(uri)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}

	// Ping the primary to verify connection
	if err = client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	slog.Info("connected to MongoDB")
	return client, nil
}

// CloseDB closes the database connections
func (db *DB) CloseDB() {
	if db.Postgres != nil {
		sqlDB, err := db.Postgres.DB()
		if err != nil {
			slog.Error("error getting SQL DB from GORM", slog.Any("err", err))
		} else if err := sqlDB.Close(); err != nil {
			slog.Error("error closing PostgreSQL connection", slog.Any("err", err))
		} else {
			slog.Info("PostgreSQL connection closed")
		}
	}

	if db.Mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Mongo.Disconnect(ctx); err != nil {
			slog.Error("error closing MongoDB connection", slog.Any("err", err))
		} else {
			slog.Info("MongoDB connection closed")
		}
	}
}

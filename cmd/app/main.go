package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/blogql/blogql/internal/blogservice"
	"github.com/blogql/blogql/internal/commentservice"
	"github.com/blogql/blogql/internal/common"
	"github.com/blogql/blogql/internal/mailservice"
	"github.com/blogql/blogql/internal/userservice"
)

type application struct {
	config         *Config
	logger         *slog.Logger
	userService    *userservice.UserService
	blogService    *blogservice.BlogService
	commentService *commentservice.CommentService
	mailService    *mailservice.MailService
	broker         *common.MessageBroker
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := loadConfig(".env")
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// The process must not serve requests without store connectivity.
	db, err := common.NewDB(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Error("failed to connect to the database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := common.CloseDB(db); err != nil {
			logger.Error("failed to close the database", slog.String("error", err.Error()))
		}
	}()

	indexCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := common.EnsureIndexes(indexCtx, db); err != nil {
		logger.Error("failed to create indexes", slog.String("error", err.Error()))
		os.Exit(1)
	}

	URI := fmt.Sprintf("amqp://%s:%s@%s:%s/", cfg.MQUser, cfg.MQPassword, cfg.MQHost, cfg.MQPort)
	broker, err := common.NewMessageBroker(URI)
	if err != nil {
		logger.Error("failed to connect to the message broker", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer broker.Close()

	if err := common.SetupUserExchange(broker); err != nil {
		logger.Error("failed to setup the user exchange", slog.String("error", err.Error()))
		os.Exit(1)
	}

	app := &application{
		config:         cfg,
		logger:         logger,
		userService:    userservice.NewUserService(db, broker),
		blogService:    blogservice.NewBlogService(db),
		commentService: commentservice.NewCommentService(db),
		mailService:    mailservice.NewMailService(broker, cfg.MailHost, cfg.MailUser, cfg.MailPassword, cfg.MailSender, cfg.MailPort, logger),
		broker:         broker,
	}

	go app.mailService.SendWelcomeEmail()
	defer app.mailService.Close()

	if err := app.serve(cfg.Port); err != nil {
		logger.Error("failed to start the server", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

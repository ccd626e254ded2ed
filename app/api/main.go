package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/go-playground/validator/v10"

	"github.com/bidhaus/goapi/base/ctx"
	"github.com/bidhaus/goapi/base/database/mongoclient"
	"github.com/bidhaus/goapi/base/log"
	"github.com/bidhaus/goapi/base/metrics"
	bValidator "github.com/bidhaus/goapi/base/validator"
	"github.com/bidhaus/goapi/domain"
	"github.com/bidhaus/goapi/domain/auction"
	mmiddleware "github.com/bidhaus/goapi/middleware"
	"github.com/bidhaus/goapi/service/chain"
	"github.com/bidhaus/goapi/service/chain/contract"
	pricefeed_service "github.com/bidhaus/goapi/service/pricefeed"
	"github.com/bidhaus/goapi/service/query"
	auction_delivery "github.com/bidhaus/goapi/stores/auction/delivery/http"
	auction_repository "github.com/bidhaus/goapi/stores/auction/repository"
	auction_usecase "github.com/bidhaus/goapi/stores/auction/usecase"
	escrow_repository "github.com/bidhaus/goapi/stores/escrow/repository"
	escrow_usecase "github.com/bidhaus/goapi/stores/escrow/usecase"
	factory_delivery "github.com/bidhaus/goapi/stores/factory/delivery/http"
	factory_usecase "github.com/bidhaus/goapi/stores/factory/usecase"
	paytoken_repository "github.com/bidhaus/goapi/stores/paytoken/repository"
	pricefeed_usecase "github.com/bidhaus/goapi/stores/pricefeed/usecase"
	upgrade_delivery "github.com/bidhaus/goapi/stores/upgrade/delivery/http"
	upgrade_usecase "github.com/bidhaus/goapi/stores/upgrade/usecase"
)

func init() {
	configFile := pflag.String("config", "infra/configs/config.yaml", "path to config file")
	pflag.Parse()

	viper.SetConfigType("yaml")
	viper.SetConfigFile(*configFile)
	err := viper.ReadInConfig()
	if err != nil {
		panic(err)
	}

	if viper.GetBool(`debug`) {
		log.Log().Info("Service RUN on DEBUG mode")
	}
}

func main() {
	// init echo
	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{}))
	e.Use(middleware.RequestID())
	middL := mmiddleware.InitMiddleware()
	e.Use(middL.ResponseLogger())
	e.Use(middL.AddContext())
	e.Use(middleware.CORS())
	e.Validator = bValidator.NewCustomValidator(validator.New())

	context := ctx.Background()

	// init mongo client
	context.Info("init mongo")
	uri := viper.GetString("mongo.uri")
	authDBName := viper.GetString("mongo.authDBName")
	dbName := viper.GetString("mongo.dbName")
	enableSSL := viper.GetBool("mongo.enableSSL")
	checkIndex := viper.GetBool("mongo.checkIndex")
	mongoClient := mongoclient.MustConnectMongoClient(uri, authDBName, dbName, enableSSL, true, 2)
	q := query.New(mongoClient, checkIndex)

	// init chain service
	networks := viper.Sub("networks")
	keys := networks.AllSettings()
	rpcs := make(map[int32]string)
	archiveRpcs := make(map[int32]string)
	for k := range keys {
		chainId := networks.GetInt32(fmt.Sprintf("%s.chainId", k))
		rpcUrl := networks.GetString(fmt.Sprintf("%s.rpcUrl", k))
		rpcs[chainId] = rpcUrl
		archiveRpcUrl := networks.GetString(fmt.Sprintf("%s.archiveRpcUrl", k))
		archiveRpcs[chainId] = archiveRpcUrl
	}
	chainService, err := chain.NewClient(context, &chain.ClientCfg{
		RpcUrls:        rpcs,
		ArchiveRpcUrls: archiveRpcs,
		OperatorKey:    viper.GetString("chain.operatorKey"),
	})
	if err != nil {
		context.WithField("err", err).Warn("chainService started with error")
	}
	erc721Service := contract.NewErc721(chainService)
	erc20Service := contract.NewErc20(chainService)
	priceFeedService := pricefeed_service.New(chainService)

	chainId := domain.ChainId(viper.GetInt32("auction.chainId"))
	custodian := domain.Address(viper.GetString("auction.custodian")).ToLower()
	admin := domain.Address(viper.GetString("auction.admin")).ToLower()
	maxPriceAge := viper.GetDuration("pricefeed.maxPriceAge")

	// construct repository, usecase and delivery
	paytokenRepo := paytoken_repository.NewPayTokenRepo(q)
	escrowRepo := escrow_repository.NewEscrowRepo(q)
	auctionRepo := auction_repository.NewAuctionRepo(q)
	eventRepo := auction_repository.NewEventRepo(q)
	revisionRepo := auction_repository.NewRevisionRepo(q)

	normalizer := pricefeed_usecase.New(priceFeedService, maxPriceAge)
	escrowUsecase := escrow_usecase.New(escrowRepo, erc20Service)

	logicCfg := auction_usecase.Config{
		ChainId:    chainId,
		Auctions:   auctionRepo,
		Events:     eventRepo,
		Escrow:     escrowUsecase,
		Normalizer: normalizer,
		Erc721:     erc721Service,
		Erc20:      erc20Service,
		Custodian:  custodian,
		Metrics:    metrics.New("auction"),
	}
	v1Cfg := logicCfg
	v1Cfg.Version = "v1"
	v1Cfg.LayoutVersion = 1
	logicV1 := auction_usecase.New(&v1Cfg)
	v2Cfg := logicCfg
	v2Cfg.Version = "v2"
	v2Cfg.LayoutVersion = 1
	logicV2 := auction_usecase.New(&v2Cfg)
	revisions := map[string]auction.Logic{
		logicV1.Version(): logicV1,
		logicV2.Version(): logicV2,
	}

	gate, err := upgrade_usecase.New(context, logicV1, revisions, revisionRepo, eventRepo, admin)
	if err != nil {
		context.WithField("err", err).Panic("failed to init auction gate")
	}

	factory := factory_usecase.New(&factory_usecase.Config{
		ChainId:   chainId,
		Auctions:  auctionRepo,
		Events:    eventRepo,
		PayTokens: paytokenRepo,
		Erc721:    erc721Service,
		Erc20:     erc20Service,
		PriceFeed: priceFeedService,
		Custodian: custodian,
		Admin:     admin,
	})

	auction_delivery.New(e, gate)
	factory_delivery.New(e, factory)
	upgrade_delivery.New(e, gate, revisions)

	go func() {
		if err := e.Start(viper.GetString("server.address")); err != nil && err != http.ErrServerClosed {
			log.Log().WithField("err", err).Error("shutting down the server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 10 seconds.
	// Use a buffered channel to avoid missing signals as recommended for signal.Notify
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	sig := <-quit
	log.Log().WithField("signal", sig).Info("received signal")
	ctx, cancel := ctx.WithTimeout(context, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Log().WithField("err", err).Error("shutting down the server")
	} else {
		log.Log().Info("shutdown server successfully")
	}
}

package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"golang.org/x/xerrors"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/lncm/una/common"
	"github.com/lncm/una/ln"
)

type (
	LightningClient interface {
		GetInfo(ctx context.Context) (common.NodeInfo, error)
		CreateInvoice(ctx context.Context, params common.CreateInvoiceParams) (common.CreateInvoiceResult, error)
		PayInvoice(ctx context.Context, params common.PayInvoiceParams) (common.PayInvoiceResult, error)
		GetInvoice(ctx context.Context, paymentHash string) (common.Invoice, error)
		DecodeInvoice(ctx context.Context, bolt11 string) (common.DecodeInvoiceResult, error)
	}

	api struct {
		ln LightningClient
	}

	errorReply struct {
		Error string `json:"error"`
		Kind  string `json:"kind,omitempty"`
	}
)

const (
	DefaultUnaPort = 8080
)

var (
	version,
	gitHash string

	configFilePath = flag.String("config", common.DefaultConfigFile, "Path to a config file in TOML format")
	showVersion    = flag.Bool("version", false, "Show version and exit")
)

func loadConfig(path string) (conf common.Config, err error) {
	conf, err = common.LoadConfig(path)
	if err != nil {
		return conf, err
	}

	if conf.Port == 0 {
		conf.Port = DefaultUnaPort
	}

	if conf.LogFile == "" {
		conf.LogFile = common.DefaultLogFile
	}

	return conf, nil
}

// httpStatus maps the error taxonomy onto HTTP.
func httpStatus(err error) int {
	switch common.KindOf(err) {
	case common.KindApi:
		return http.StatusBadRequest

	case common.KindConversion:
		return http.StatusUnprocessableEntity

	case common.KindNotImplemented:
		return http.StatusNotImplemented

	case common.KindUnauthorized:
		return http.StatusBadGateway

	case common.KindConnection:
		var e *common.Error
		if xerrors.As(err, &e) && e.Timeout {
			return http.StatusGatewayTimeout
		}

		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

func errorStatus(msg string, err ...interface{}) errorReply {
	return errorReply{
		Error: xerrors.Errorf(msg, err...).Error(),
	}
}

func (a api) fail(c *gin.Context, op string, err error) {
	reply := errorStatus("%s: %w", op, err)
	reply.Kind = common.KindOf(err).String()

	log.WithError(err).WithFields(log.Fields{
		"op":   op,
		"kind": reply.Kind,
	}).Warn("node call failed")

	c.JSON(httpStatus(err), reply)
}

func (a api) info(c *gin.Context) {
	info, err := a.ln.GetInfo(c.Request.Context())
	if err != nil {
		a.fail(c, "can't get info from LN node", err)
		return
	}

	c.JSON(http.StatusOK, info)
}

func (a api) newInvoice(c *gin.Context) {
	var params common.CreateInvoiceParams
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, errorStatus("invalid request: %w", err))
		return
	}

	invoice, err := a.ln.CreateInvoice(c.Request.Context(), params)
	if err != nil {
		a.fail(c, "can't create new LN invoice", err)
		return
	}

	log.WithFields(log.Fields{
		"amount_msat": common.AmountMsat(params.Amount, params.AmountMsat),
		"hash":        invoice.PaymentHash,
	}).Println("invoice created")

	c.JSON(http.StatusOK, invoice)
}

func (a api) invoice(c *gin.Context) {
	invoice, err := a.ln.GetInvoice(c.Request.Context(), c.Param("hash"))
	if err != nil {
		a.fail(c, "can't get LN invoice", err)
		return
	}

	c.JSON(http.StatusOK, invoice)
}

func (a api) decode(c *gin.Context) {
	var data struct {
		Invoice string `json:"invoice" binding:"required"`
	}

	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, errorStatus("invalid request: %w", err))
		return
	}

	decoded, err := a.ln.DecodeInvoice(c.Request.Context(), data.Invoice)
	if err != nil {
		a.fail(c, "can't decode invoice", err)
		return
	}

	c.JSON(http.StatusOK, decoded)
}

func (a api) pay(c *gin.Context) {
	var params common.PayInvoiceParams
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, errorStatus("invalid request: %w", err))
		return
	}

	if params.PaymentRequest == "" {
		c.JSON(http.StatusBadRequest, errorStatus("payment_request is required"))
		return
	}

	res, err := a.ln.PayInvoice(c.Request.Context(), params)
	if err != nil {
		a.fail(c, "can't pay invoice", err)
		return
	}

	log.WithFields(log.Fields{
		"user": c.GetString(gin.AuthUserKey),
		"hash": res.PaymentHash,
	}).Println("invoice paid")

	c.JSON(http.StatusOK, res)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.WithFields(log.Fields{
			"method":  c.Request.Method,
			"path":    c.FullPath(),
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}).Debug("request")
	}
}

// rateLimit rejects requests above perSecond across all clients. Zero
// disables limiting.
func rateLimit(perSecond float64) gin.HandlerFunc {
	if perSecond <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	limiter := rate.NewLimiter(rate.Limit(perSecond), int(math.Max(1, math.Ceil(perSecond))))

	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, errorStatus("rate limit exceeded"))
			return
		}

		c.Next()
	}
}

func newRouter(client LightningClient, conf common.Config) *gin.Engine {
	a := api{ln: client}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger())
	r.Use(cors.Default())
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.Use(rateLimit(conf.RateLimit))

	router := r.Group("/api")
	router.GET("/info", a.info)
	router.POST("/invoice", a.newInvoice)
	router.GET("/invoice/:hash", a.invoice)
	router.POST("/decode", a.decode)

	// paying only available if Basic Auth is enabled
	if len(conf.Users) > 0 {
		router.POST("/pay", gin.BasicAuth(gin.Accounts(conf.Users)), a.pay)
	}

	return r
}

func main() {
	flag.Parse()

	versionString := "debug"
	if version != "" && gitHash != "" {
		versionString = fmt.Sprintf("%s (git: %s)", version, gitHash)
	}

	// if `--version` flag set, just show the version, and exit
	if *showVersion {
		fmt.Println(versionString)
		os.Exit(0)
	}

	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})

	conf, err := loadConfig(*configFilePath)
	if err != nil {
		panic(err)
	}

	shutdownTracing, err := ln.SetupTracing(conf.Trace, nil)
	if err != nil {
		panic(xerrors.Errorf("unable to set up tracing:\n\t%w", err))
	}

	backend := common.ParseBackend(conf.Backend)
	node, err := ln.New(backend, conf.Node)
	if err != nil {
		panic(xerrors.Errorf("unable to set up %s backend:\n\t%w", conf.Backend, err))
	}
	defer node.Close()

	fields := log.Fields{
		"version":   versionString,
		"backend":   backend.String(),
		"node":      conf.Node.String(),
		"users":     len(conf.Users),
		"conf-file": *configFilePath,
		"log-file":  conf.LogFile,
	}

	// Write current config to stdout
	log.WithFields(fields).Println("una started")

	// After all initialization has been done, start logging to log file
	log.SetOutput(&lumberjack.Logger{
		Filename:  common.CleanAndExpandPath(conf.LogFile),
		LocalTime: true,
		Compress:  true,
	})
	log.SetFormatter(&log.JSONFormatter{
		PrettyPrint: false, // Having `false` here makes sure that `jq` always works on `tail -f`.
	})

	// Write current config to log file
	log.WithFields(fields).Println("una started")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go node.Watch(ctx, ln.DefaultWatchInterval)

	gin.SetMode(gin.ReleaseMode)
	r := newRouter(node, conf)

	log.WithFields(log.Fields{
		"routes": common.FormatRoutes(r.Routes()),
		"port":   conf.Port,
	}).Println("gin router defined")

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", conf.Port),
		Handler: r,
	}

	// Start server
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server failed")
		}

		log.Info("shutting down the server")
	}()

	// Wait for interrupt signal to gracefully shutdown the server with
	// a timeout of 10 seconds.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server shutdown failed")
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		log.WithError(err).Warn("tracer shutdown failed")
	}
}

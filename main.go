package main

import (
	"log"
	"strings"
	"time"

	"mediafolio/auth"
	"mediafolio/config"
	"mediafolio/db"
	"mediafolio/handlers"
	"mediafolio/models"
	"mediafolio/storage"
	"mediafolio/utils"
	"mediafolio/web"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	gormsessions "github.com/gin-contrib/sessions/gorm"
	"github.com/gin-gonic/autotls"
	"github.com/gin-gonic/gin"
)

const (
	sessionCookieName     = "token"
	sessionExpirationTime = 30 * 86400 // 30 days
)

func main() {
	db.Init()
	models.Init()
	storage.Init()

	// CreateFolder is non-recursive, so the profiles root has to exist before
	// the first profile save.
	profilesRoot := models.ProfilesFolderName + "/"
	if err := storage.EnsureFolder(storage.Get(), profilesRoot); err != nil {
		log.Fatalf("Cannot prepare %s: %v", profilesRoot, err)
	}

	if !config.DEBUG_MODE {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	_ = router.SetTrustedProxies([]string{})
	if config.DEBUG_MODE {
		router.Use(utils.ErrorLogMiddleware)
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"PUT", "POST", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           30 * 24 * time.Hour,
	}))

	// HTML templates
	router.LoadHTMLGlob("templates/*.tmpl")

	sessionKey := config.SESSION_KEY
	if sessionKey == "" {
		log.Println("WARNING: SESSION_KEY is not set, sessions won't survive restarts")
		sessionKey = time.Now().String()
	}
	cookieStore := gormsessions.NewStore(db.Instance, true, []byte(sessionKey))
	cookieStore.Options(sessions.Options{Path: "/", MaxAge: sessionExpirationTime})
	router.Use(sessions.Sessions(sessionCookieName, cookieStore))
	if !config.DEBUG_MODE {
		router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/media/"})))
	}
	router.Use((&utils.CacheRouter{CacheTime: utils.CacheNoCache}).Handler()) // No cache by default

	/*
	 *	Web interface
	 */
	router.GET("/", web.IndexView)
	router.GET("/security/authenticate/register", web.RegisterView)
	router.POST("/security/authenticate/register", web.RegisterSubmit)
	router.GET("/security/authenticate/login", web.LoginView)
	router.POST("/security/authenticate/login", web.LoginSubmit)

	pageRouter := &auth.Router{Base: router, LoginURL: web.LoginURL}
	pageRouter.GET("/security/profile/info", web.ProfileInfoView)
	pageRouter.POST("/security/profile/info", web.ProfileInfoSubmit)
	pageRouter.GET("/security/profile/password", web.ProfilePasswordView)
	pageRouter.POST("/security/profile/password", web.ProfilePasswordSubmit)
	pageRouter.GET("/security/profile/avatar", web.ProfileAvatarView)
	pageRouter.POST("/security/profile/avatar", web.ProfileAvatarSubmit)
	pageRouter.GET("/security/profile/logout", web.LogoutView)
	pageRouter.POST("/security/profile/logout", web.LogoutSubmit)

	pageRouter.GET("/dashboard", web.DashboardView)
	pageRouter.GET("/dashboard/album/list", web.AlbumListView)
	pageRouter.GET("/dashboard/album/create", web.AlbumCreateView)
	pageRouter.POST("/dashboard/album/create", web.AlbumCreateSubmit)
	pageRouter.GET("/dashboard/album/:id/detail", web.AlbumDetailView)
	pageRouter.GET("/dashboard/album/:id/update", web.AlbumUpdateView)
	pageRouter.POST("/dashboard/album/:id/update", web.AlbumUpdateSubmit)
	pageRouter.GET("/dashboard/album/:id/delete", web.AlbumDeleteView)
	pageRouter.POST("/dashboard/album/:id/delete", web.AlbumDeleteSubmit)
	pageRouter.GET("/dashboard/image/list", web.ImageListView)
	pageRouter.GET("/dashboard/image/create", web.ImageCreateView)
	pageRouter.POST("/dashboard/image/create", web.ImageCreateSubmit)
	pageRouter.GET("/dashboard/image/:id/detail", web.ImageDetailView)
	pageRouter.GET("/dashboard/image/:id/update", web.ImageUpdateView)
	pageRouter.POST("/dashboard/image/:id/update", web.ImageUpdateSubmit)
	pageRouter.GET("/dashboard/image/:id/delete", web.ImageDeleteView)
	pageRouter.POST("/dashboard/image/:id/delete", web.ImageDeleteSubmit)

	// Media files, served through whichever backend is active
	router.GET("/media/*path", web.MediaFetch)
	router.GET("/robots.txt", web.DisallowRobots)

	/*
	 *	REST API
	 */
	router.POST("/api/security/", handlers.SecurityRegister)
	apiRouter := &auth.Router{Base: router}
	apiRouter.GET("/api/security/", handlers.SecurityInfo)
	apiRouter.PUT("/api/security/", handlers.SecurityUpdate)
	apiRouter.PATCH("/api/security/", handlers.SecurityPassword)

	apiRouter.GET("/api/dashboard/album/", handlers.AlbumRetrieve)
	apiRouter.POST("/api/dashboard/album/", handlers.AlbumCreate)
	apiRouter.PUT("/api/dashboard/album/", handlers.AlbumUpdate)
	apiRouter.PATCH("/api/dashboard/album/", handlers.AlbumPartialUpdate)
	apiRouter.DELETE("/api/dashboard/album/", handlers.AlbumDelete)
	apiRouter.GET("/api/dashboard/album/user/", handlers.AlbumList)

	apiRouter.GET("/api/dashboard/image/", handlers.ImageRetrieve)
	apiRouter.POST("/api/dashboard/image/", handlers.ImageCreate)
	apiRouter.PUT("/api/dashboard/image/", handlers.ImageUpdate)
	apiRouter.PATCH("/api/dashboard/image/", handlers.ImagePartialUpdate)
	apiRouter.DELETE("/api/dashboard/image/", handlers.ImageDelete)
	apiRouter.GET("/api/dashboard/image/album/", handlers.ImageList)

	var err error
	if config.TLS_DOMAINS != "" {
		err = autotls.Run(router, strings.Split(config.TLS_DOMAINS, ",")...)
	} else {
		err = router.Run(config.BIND_ADDRESS)
	}
	log.Fatalf("Server stopped: %v", err)
}

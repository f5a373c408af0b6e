package main

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/jessevdk/go-flags"

	"steamlibrarian/core"
	"steamlibrarian/platform"
)

type Options struct {
	Install     []string `short:"i" long:"install" description:"Install a game: '<appid>' or '<appid>:<name>'"`
	Uninstall   []string `short:"r" long:"uninstall" description:"Uninstall a game: '<appid>' or '<appid>:<name>'"`
	Sync        []bool   `short:"s" long:"sync" description:"Refresh the library cache from the Steam Web API"`
	Wishlist    []bool   `short:"w" long:"wishlist" description:"Check wishlisted games for current Steam sales"`
	SortBy      []string `long:"sort" description:"Wishlist sort order: deal, discount or price"`
	Info        []int    `long:"info" description:"Print the stored record for an appid"`
	List        []bool   `short:"l" long:"list" description:"List the library in selection order"`
	LogLocation []string `long:"log-location" description:"Specifies path to logfile. Defaults to User's Cache Dir / steamlibrarian.log"`
}

type application struct {
	ctx    context.Context
	config *core.Config
	store  *core.LibraryStore
}

func (a *application) newOrchestrator(channels *core.ChannelProvider) *core.InstallOrchestrator {
	client := platform.NewSteamClient()
	manifests := core.NewManifestReconciler(a.config, client)
	resolver := core.NewPathResolver(a.config, manifests)
	installer := core.NewSteamCmdInstaller(a.config)
	return core.NewInstallOrchestrator(a.store, resolver, manifests, installer, channels)
}

func (a *application) install(name string, appid int) error {
	return a.runOperation(name, appid, true)
}

func (a *application) uninstall(name string, appid int) error {
	return a.runOperation(name, appid, false)
}

func (a *application) runOperation(name string, appid int, install bool) error {
	channels := core.MakeDefaultChannelProvider()
	done := make(chan struct{})
	go func() {
		core.ConsoleLogger(channels.Logs)
		close(done)
	}()

	orchestrator := a.newOrchestrator(channels)
	var err error
	if install {
		err = orchestrator.InstallGame(a.ctx, name, appid)
	} else {
		err = orchestrator.UninstallGame(a.ctx, name, appid)
	}

	channels.Logs <- core.Message{Finished: true}
	<-done
	return err
}

// parseGameSpec accepts "<appid>" or "<appid>:<name>". Without an
// explicit name the stored display name is used, falling back to a
// placeholder for games the cache has not seen yet.
func (a *application) parseGameSpec(spec string) (int, string, error) {
	appidStr, name, explicit := strings.Cut(spec, ":")
	appid, err := strconv.Atoi(strings.TrimSpace(appidStr))
	if err != nil {
		return 0, "", fmt.Errorf("invalid game spec %q: %v", spec, err)
	}

	name = strings.TrimSpace(name)
	if !explicit || name == "" {
		if info, err := a.store.GetGameInfo(appid); err == nil {
			name = info.Name
		} else {
			name = fmt.Sprintf("App %d", appid)
		}
	}

	return appid, name, nil
}

func (a *application) printInfo(appid int) error {
	info, err := a.store.GetGameInfo(appid)
	if err != nil {
		return err
	}

	fmt.Printf("Name:        %v\n", info.Name)
	fmt.Printf("Playtime:    %v\n", info.Playtime)
	fmt.Printf("Last played: %v\n", info.LastPlayed)
	fmt.Printf("Status:      %v\n", info.Status)
	return nil
}

func (a *application) printList() error {
	return a.store.ListForSelection(func(label string, appid int) bool {
		fmt.Printf("%8d  %v\n", appid, label)
		return true
	})
}

func runSync(ctx context.Context, config *core.Config) error {
	store, err := core.InitLibraryStore(config.DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()

	syncer := core.NewLibrarySyncer(config)
	count, err := syncer.SyncLibrary(ctx, store)
	if err != nil {
		return err
	}

	fmt.Printf("Updated %v games in %v\n", count, config.DatabasePath)
	return nil
}

func runWishlist(ctx context.Context, config *core.Config, sortBy string) error {
	checker := core.NewWishlistChecker(config)
	deals, err := checker.Check(ctx)
	if err != nil {
		return err
	}

	if len(deals) == 0 {
		fmt.Println("No wishlist games are currently on sale on Steam.")
		return nil
	}

	core.SortDeals(deals, sortBy)
	fmt.Println(renderWishlistTable(deals, config.Country, sortBy))
	return nil
}

func main() {
	ops := &Options{}
	_, err := flags.Parse(ops)
	if err != nil {
		log.Fatal(err)
	}

	if len(ops.LogLocation) > 0 {
		err = core.InitLoggingWithPath(ops.LogLocation[0])
	} else {
		err = core.InitLoggingWithDefaultPath()
	}
	if err != nil {
		log.Fatal(err)
	}

	config, err := core.LoadConfig(platform.SteamRoot())
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	if len(ops.Sync) > 0 && ops.Sync[0] {
		if err := runSync(ctx, config); err != nil {
			log.Fatal(err)
		}
		return
	}

	if len(ops.Wishlist) > 0 && ops.Wishlist[0] {
		sortBy := "deal"
		if len(ops.SortBy) > 0 {
			sortBy = ops.SortBy[0]
		}
		if err := runWishlist(ctx, config, sortBy); err != nil {
			log.Fatal(err)
		}
		return
	}

	// Everything below needs an existing library cache.
	store, err := core.OpenLibraryStore(config.DatabasePath)
	if err != nil {
		log.Fatal(err, " - run --sync to build the library cache")
	}
	defer store.Close()

	app := &application{
		ctx:    ctx,
		config: config,
		store:  store,
	}

	switch {
	case len(ops.Info) > 0:
		err = app.printInfo(ops.Info[0])
	case len(ops.List) > 0 && ops.List[0]:
		err = app.printList()
	case len(ops.Install) > 0:
		for _, spec := range ops.Install {
			appid, name, perr := app.parseGameSpec(spec)
			if perr != nil {
				err = perr
				break
			}
			if err = app.install(name, appid); err != nil {
				break
			}
		}
	case len(ops.Uninstall) > 0:
		for _, spec := range ops.Uninstall {
			appid, name, perr := app.parseGameSpec(spec)
			if perr != nil {
				err = perr
				break
			}
			if err = app.uninstall(name, appid); err != nil {
				break
			}
		}
	default:
		err = runInteractiveMenu(app)
	}

	if err != nil {
		log.Fatal(err)
	}
}

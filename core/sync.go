package core

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
)

const defaultSteamAPIBase = "https://api.steampowered.com"

// OwnedGame is one entry of the owned-games API response.
type OwnedGame struct {
	AppID           int    `json:"appid"`
	Name            string `json:"name"`
	PlaytimeForever int    `json:"playtime_forever"`
	RtimeLastPlayed int64  `json:"rtime_last_played"`
}

type ownedGamesResponse struct {
	Response struct {
		GameCount int         `json:"game_count"`
		Games     []OwnedGame `json:"games"`
	} `json:"response"`
}

// LibrarySyncer pulls the account's owned games from the Steam Web API
// and upserts them into the library store. It owns playtime and
// last-played; the installed flag it writes on upsert reflects manifest
// presence at sync time.
type LibrarySyncer struct {
	config  *Config
	apiBase string
	client  *http.Client
}

func NewLibrarySyncer(config *Config) *LibrarySyncer {
	return &LibrarySyncer{
		config:  config,
		apiBase: defaultSteamAPIBase,
		client:  &http.Client{},
	}
}

// SyncLibrary fetches every owned game and upserts it. Returns the
// number of games written.
func (s *LibrarySyncer) SyncLibrary(ctx context.Context, store *LibraryStore) (int, error) {
	if err := s.config.RequireSteamAPI(); err != nil {
		return 0, err
	}

	games, err := s.fetchOwnedGames(ctx)
	if err != nil {
		return 0, err
	}

	for _, game := range games {
		installed := s.manifestExists(game.AppID)
		err := store.UpsertOwnedGame(game.AppID, game.Name, game.PlaytimeForever, game.RtimeLastPlayed, installed)
		if err != nil {
			return 0, err
		}
	}

	return len(games), nil
}

func (s *LibrarySyncer) manifestExists(appid int) bool {
	_, err := os.Stat(s.config.ManifestPath(appid))
	return err == nil
}

func (s *LibrarySyncer) fetchOwnedGames(ctx context.Context) ([]OwnedGame, error) {
	endpoint := s.apiBase + "/IPlayerService/GetOwnedGames/v1/"
	params := url.Values{}
	params.Set("key", s.config.SteamAPIKey)
	params.Set("steamid", s.config.SteamID)
	params.Set("include_appinfo", "true")
	params.Set("include_played_free_games", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 300))
		return nil, fmt.Errorf("steam api error %v: %s", resp.StatusCode, body)
	}

	var parsed ownedGamesResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	return parsed.Response.Games, nil
}

package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

const (
	defaultStorefrontBase = "https://store.steampowered.com"
	defaultITADBase       = "https://api.isthereanydeal.com"

	// Steam's numeric shop id on IsThereAnyDeal.
	itadSteamShopID = 61
)

// DealTag classifies how good a current sale is. Lower values rank
// higher in the default sort.
type DealTag int

const (
	DealSteamAllTimeLow DealTag = iota
	DealCrossStoreLow
	DealMatchingLowest
	DealOnSale
)

func (t DealTag) Label() string {
	switch t {
	case DealSteamAllTimeLow:
		return "Steam All-Time Low"
	case DealCrossStoreLow:
		return "Cross-Store Low"
	case DealMatchingLowest:
		return "Matching Lowest"
	default:
		return "On Sale"
	}
}

// Deal is one wishlisted game currently on sale on Steam.
type Deal struct {
	Name            string
	CurrentPrice    float64
	RegularPrice    float64
	DiscountPercent int
	URL             string
	StoreLow        *float64
	HistoricalLow   *float64
	OneYearLow      *float64
	Tag             DealTag
}

// WishlistChecker fetches the account's wishlist and cross-references
// current Steam prices against historical lows via the ITAD API.
type WishlistChecker struct {
	config         *Config
	apiBase        string
	storefrontBase string
	itadBase       string
	client         *http.Client
}

func NewWishlistChecker(config *Config) *WishlistChecker {
	return &WishlistChecker{
		config:         config,
		apiBase:        defaultSteamAPIBase,
		storefrontBase: defaultStorefrontBase,
		itadBase:       defaultITADBase,
		client:         &http.Client{},
	}
}

// Check returns the wishlisted games currently on sale, classified and
// unsorted. An empty wishlist yields an empty slice, not an error.
func (w *WishlistChecker) Check(ctx context.Context) ([]Deal, error) {
	if err := w.config.RequireSteamAPI(); err != nil {
		return nil, err
	}
	if err := w.config.RequireITAD(); err != nil {
		return nil, err
	}

	appids, err := w.fetchWishlist(ctx)
	if err != nil {
		return nil, err
	}
	if len(appids) == 0 {
		return nil, nil
	}

	names := w.resolveNames(ctx, appids)

	steamToITAD, err := w.lookupITADIDs(ctx, appids)
	if err != nil {
		return nil, err
	}

	itadToSteam := make(map[string]int, len(steamToITAD))
	itadIDs := make([]string, 0, len(steamToITAD))
	for appid, id := range steamToITAD {
		itadToSteam[id] = appid
		itadIDs = append(itadIDs, id)
	}
	if len(itadIDs) == 0 {
		return nil, fmt.Errorf("no games resolved via ITAD")
	}

	prices, err := w.fetchPrices(ctx, itadIDs)
	if err != nil {
		return nil, err
	}

	deals := make([]Deal, 0, len(prices))
	for itadID, price := range prices {
		appid := itadToSteam[itadID]
		name, ok := names[appid]
		if !ok {
			name = "AppID " + strconv.Itoa(appid)
		}
		price.Name = name
		price.Tag = classifyDeal(price)
		deals = append(deals, price)
	}

	return deals, nil
}

func classifyDeal(d Deal) DealTag {
	if d.StoreLow != nil && d.CurrentPrice <= *d.StoreLow {
		return DealSteamAllTimeLow
	}
	if d.HistoricalLow != nil && d.CurrentPrice <= *d.HistoricalLow {
		return DealCrossStoreLow
	}
	if d.OneYearLow != nil && d.CurrentPrice <= *d.OneYearLow {
		return DealMatchingLowest
	}
	return DealOnSale
}

// SortDeals orders deals by one of three strategies: "discount"
// (highest cut first), "price" (cheapest first) or the default "deal"
// (best tag first, then by price).
func SortDeals(deals []Deal, sortBy string) {
	switch sortBy {
	case "discount":
		sort.Slice(deals, func(i, j int) bool {
			return deals[i].DiscountPercent > deals[j].DiscountPercent
		})
	case "price":
		sort.Slice(deals, func(i, j int) bool {
			return deals[i].CurrentPrice < deals[j].CurrentPrice
		})
	default:
		sort.Slice(deals, func(i, j int) bool {
			if deals[i].Tag != deals[j].Tag {
				return deals[i].Tag < deals[j].Tag
			}
			return deals[i].CurrentPrice < deals[j].CurrentPrice
		})
	}
}

type wishlistResponse struct {
	Response struct {
		Items []struct {
			AppID int `json:"appid"`
		} `json:"items"`
	} `json:"response"`
}

func (w *WishlistChecker) fetchWishlist(ctx context.Context) ([]int, error) {
	endpoint := w.apiBase + "/IWishlistService/GetWishlist/v1"
	params := url.Values{}
	params.Set("key", w.config.SteamAPIKey)
	params.Set("steamid", w.config.SteamID)

	var parsed wishlistResponse
	if err := w.getJSON(ctx, endpoint+"?"+params.Encode(), &parsed); err != nil {
		return nil, err
	}

	appids := make([]int, 0, len(parsed.Response.Items))
	for _, item := range parsed.Response.Items {
		if item.AppID != 0 {
			appids = append(appids, item.AppID)
		}
	}
	return appids, nil
}

type appDetailsEntry struct {
	Success bool `json:"success"`
	Data    struct {
		Name string `json:"name"`
	} `json:"data"`
}

// resolveNames looks display names up through the storefront appdetails
// endpoint. Lookup failures degrade to an "AppID n" placeholder, same
// as the rest of the pipeline.
func (w *WishlistChecker) resolveNames(ctx context.Context, appids []int) map[int]string {
	names := make(map[int]string, len(appids))
	for _, appid := range appids {
		id := strconv.Itoa(appid)
		endpoint := w.storefrontBase + "/api/appdetails?appids=" + id + "&filters=basic"

		var parsed map[string]appDetailsEntry
		if err := w.getJSON(ctx, endpoint, &parsed); err != nil {
			InfoLogger.Println("appdetails lookup failed for", appid, err)
			continue
		}

		if entry, ok := parsed[id]; ok && entry.Success && entry.Data.Name != "" {
			names[appid] = entry.Data.Name
		}
	}
	return names
}

// lookupITADIDs maps Steam appids to ITAD game UUIDs. Unknown games
// come back null from the API and are skipped.
func (w *WishlistChecker) lookupITADIDs(ctx context.Context, appids []int) (map[int]string, error) {
	shopIDs := make([]string, len(appids))
	for i, appid := range appids {
		shopIDs[i] = "app/" + strconv.Itoa(appid)
	}

	endpoint := fmt.Sprintf("%v/lookup/id/shop/%v/v1?key=%v", w.itadBase, itadSteamShopID, url.QueryEscape(w.config.ITADKey))

	var parsed map[string]*string
	if err := w.postJSON(ctx, endpoint, shopIDs, &parsed); err != nil {
		return nil, err
	}

	ids := make(map[int]string)
	for shopID, itadID := range parsed {
		if itadID == nil {
			continue
		}
		appid, err := strconv.Atoi(strings.TrimPrefix(shopID, "app/"))
		if err != nil {
			continue
		}
		ids[appid] = *itadID
	}
	return ids, nil
}

type itadAmount struct {
	Amount float64 `json:"amount"`
}

type itadDeal struct {
	Price    itadAmount  `json:"price"`
	Regular  itadAmount  `json:"regular"`
	Cut      int         `json:"cut"`
	URL      string      `json:"url"`
	StoreLow *itadAmount `json:"storeLow"`
}

type itadPriceItem struct {
	ID         string     `json:"id"`
	Deals      []itadDeal `json:"deals"`
	HistoryLow struct {
		All *itadAmount `json:"all"`
		Y1  *itadAmount `json:"y1"`
	} `json:"historyLow"`
}

// fetchPrices returns current Steam deal data keyed by ITAD id. Games
// with no active deal are omitted.
func (w *WishlistChecker) fetchPrices(ctx context.Context, itadIDs []string) (map[string]Deal, error) {
	params := url.Values{}
	params.Set("key", w.config.ITADKey)
	params.Set("country", w.config.Country)
	params.Set("shops", strconv.Itoa(itadSteamShopID))
	params.Set("deals", "1")
	endpoint := w.itadBase + "/games/prices/v3?" + params.Encode()

	var parsed []itadPriceItem
	if err := w.postJSON(ctx, endpoint, itadIDs, &parsed); err != nil {
		return nil, err
	}

	prices := make(map[string]Deal)
	for _, item := range parsed {
		if len(item.Deals) == 0 {
			continue
		}

		best := item.Deals[0]
		for _, d := range item.Deals[1:] {
			if d.Price.Amount < best.Price.Amount {
				best = d
			}
		}

		deal := Deal{
			CurrentPrice:    best.Price.Amount,
			RegularPrice:    best.Regular.Amount,
			DiscountPercent: best.Cut,
			URL:             best.URL,
		}
		if best.StoreLow != nil {
			deal.StoreLow = &best.StoreLow.Amount
		}
		if item.HistoryLow.All != nil {
			deal.HistoricalLow = &item.HistoryLow.All.Amount
		}
		if item.HistoryLow.Y1 != nil {
			deal.OneYearLow = &item.HistoryLow.Y1.Amount
		}

		prices[item.ID] = deal
	}
	return prices, nil
}

func (w *WishlistChecker) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	return w.doJSON(req, out)
}

func (w *WishlistChecker) postJSON(ctx context.Context, endpoint string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return w.doJSON(req, out)
}

func (w *WishlistChecker) doJSON(req *http.Request, out any) error {
	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 300))
		return fmt.Errorf("%v returned %v: %s", req.URL.Path, resp.StatusCode, body)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

package service

import (
	"fmt"
	"net/url"

	"checkout-service/internal/config"
)

// SiteURLs resolves shopper-facing URLs from site configuration.
type SiteURLs interface {
	ReceiptURL(orderNumber string) string
	PaymentErrorURL() string
	LoginURL(next string) string
}

type siteURLsImpl struct {
	cfg *config.Site
}

func NewSiteURLs(cfg *config.Site) SiteURLs {
	return &siteURLsImpl{
		cfg: cfg,
	}
}

func (s *siteURLsImpl) ReceiptURL(orderNumber string) string {
	return fmt.Sprintf("%s%s/%s", s.cfg.BaseURL, s.cfg.ReceiptPath, orderNumber)
}

func (s *siteURLsImpl) PaymentErrorURL() string {
	return s.cfg.BaseURL + s.cfg.PaymentErrorPath
}

func (s *siteURLsImpl) LoginURL(next string) string {
	return fmt.Sprintf("%s%s?next=%s", s.cfg.BaseURL, s.cfg.LoginPath, url.QueryEscape(next))
}

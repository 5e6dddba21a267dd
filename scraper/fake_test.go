package scraper

import (
	"context"
	"fmt"
	"time"
)

// fakePage replays a fixed sequence of page texts. Each successful reveal
// click advances to the next text.
type fakePage struct {
	url     string
	texts   []string
	current int

	// stuck makes the reveal click succeed without revealing anything.
	stuck bool
	// hidden lists controls that are absent from the page.
	hidden map[string]bool
	// onWait runs before a wait condition is evaluated.
	onWait func(p *fakePage, w Wait)

	links  []string
	images []string
	detail *fakePage

	gotos  []string
	clicks []string
	waits  []string
	closed bool
}

func (p *fakePage) Goto(_ context.Context, url string, _ time.Duration) error {
	p.gotos = append(p.gotos, url)
	p.url = url
	return nil
}

func (p *fakePage) URL() string { return p.url }

func (p *fakePage) Text(context.Context, time.Duration) (string, error) {
	if len(p.texts) == 0 {
		return "", nil
	}
	return p.texts[p.current], nil
}

func (p *fakePage) WaitUntil(ctx context.Context, w Wait) error {
	p.waits = append(p.waits, w.Name)
	if p.onWait != nil {
		p.onWait(p, w)
	}
	text, _ := p.Text(ctx, 0)
	if w.Until(State{URL: p.url, Text: text}) {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrTimeout, w.Description)
}

func (p *fakePage) Click(_ context.Context, t Target, _ time.Duration) error {
	if p.hidden[t.Name] {
		return ErrControlUnavailable
	}
	if t.Name == RevealControl.Name {
		if p.stuck {
			p.clicks = append(p.clicks, t.Name)
			return nil
		}
		if p.current+1 >= len(p.texts) {
			return ErrControlUnavailable
		}
		p.current++
	}
	p.clicks = append(p.clicks, t.Name)
	return nil
}

func (p *fakePage) Count(_ context.Context, t Target) (int, error) {
	if t.Name == DetailLinks.Name {
		return len(p.links), nil
	}
	return 0, nil
}

func (p *fakePage) Attributes(_ context.Context, t Target, _ string, _ time.Duration) ([]string, error) {
	switch t.Name {
	case DetailLinks.Name:
		return p.links, nil
	case ItemImages.Name:
		return p.images, nil
	}
	return nil, nil
}

func (p *fakePage) Open(_ context.Context, _ Target, index int, _ time.Duration) (Page, error) {
	if p.detail == nil {
		return nil, fmt.Errorf("no detail page for %d", index)
	}
	return p.detail, nil
}

func (p *fakePage) Close() error {
	p.closed = true
	return nil
}

package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/shopnow/internal/domain/query"
	"github.com/xenking/shopnow/internal/storefront"
	"github.com/xenking/shopnow/internal/view"
	"github.com/xenking/shopnow/pkg/dispatch"
)

// Gate reports whether the session may accept interactions. Satisfied by
// *health.Health.
type Gate interface {
	IsReady() bool
	Failures() map[string]string
}

// Session reads commands line by line and runs them through the dispatcher.
// One Session maps to one user working one storefront.
type Session struct {
	shop    *storefront.Storefront
	disp    *dispatch.Dispatcher
	gate    Gate
	ui      *UI
	filters query.Filters
}

// NewSession wires a session over an already-constructed storefront.
func NewSession(shop *storefront.Storefront, disp *dispatch.Dispatcher, gate Gate, ui *UI) *Session {
	return &Session{shop: shop, disp: disp, gate: gate, ui: ui}
}

// Run consumes in until EOF, the quit command, or context cancellation.
// Unknown commands and bad arguments report to the user and keep the loop
// alive; only store-level failures end the session.
func (s *Session) Run(ctx context.Context, in io.Reader) error {
	s.shop.Startup(ctx)

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		cmd, args, _ := strings.Cut(line, " ")
		if cmd == "quit" || cmd == "exit" {
			return nil
		}

		if !s.gate.IsReady() {
			zctx.From(ctx).Warn("Session not ready, command rejected",
				zap.Any("failures", s.gate.Failures()))
			s.ui.Notify(ctx, view.NewToast("Store unavailable, try again shortly"))
			continue
		}

		if err := s.execute(ctx, cmd, strings.TrimSpace(args)); err != nil {
			return errors.Wrapf(err, "command %q", cmd)
		}
	}
	return scanner.Err()
}

func (s *Session) execute(ctx context.Context, cmd, args string) error {
	switch cmd {
	case "help":
		return s.printHelp()
	case "list":
		return s.disp.Dispatch(ctx, "catalog.browse", s.browse)
	case "search":
		s.filters.SearchText = args
		return s.disp.Dispatch(ctx, "catalog.browse", s.browse)
	case "category":
		s.filters.Category = args
		return s.disp.Dispatch(ctx, "catalog.browse", s.browse)
	case "sort":
		s.filters.Sort = query.SortOrder(args)
		return s.disp.Dispatch(ctx, "catalog.browse", s.browse)
	case "filter":
		s.filters.Expr = args
		return s.disp.Dispatch(ctx, "catalog.browse", s.browse)
	case "categories":
		return s.disp.Dispatch(ctx, "catalog.categories", func(ctx context.Context) error {
			cats, err := s.shop.Categories(ctx)
			if err != nil {
				return err
			}
			return s.ui.printf("categories: %s\n", strings.Join(cats, ", "))
		})
	case "open":
		id, err := parseID(args)
		if err != nil {
			s.ui.Notify(ctx, view.NewToast(err.Error()))
			return nil
		}
		return s.disp.Dispatch(ctx, "catalog.open", func(ctx context.Context) error {
			return s.shop.OpenProduct(ctx, id)
		})
	case "show":
		id, err := parseID(args)
		if err != nil {
			s.ui.Notify(ctx, view.NewToast(err.Error()))
			return nil
		}
		return s.disp.Dispatch(ctx, "catalog.show", func(ctx context.Context) error {
			return s.showProduct(ctx, id)
		})
	case "add":
		id, qty, err := parseIDQty(args)
		if err != nil {
			s.ui.Notify(ctx, view.NewToast(err.Error()))
			return nil
		}
		return s.disp.Dispatch(ctx, "cart.add", func(ctx context.Context) error {
			return s.shop.AddToCart(ctx, id, qty)
		})
	case "inc":
		id, err := parseID(args)
		if err != nil {
			s.ui.Notify(ctx, view.NewToast(err.Error()))
			return nil
		}
		return s.disp.Dispatch(ctx, "cart.increment", func(ctx context.Context) error {
			return s.shop.IncrementLine(ctx, id)
		})
	case "dec":
		id, err := parseID(args)
		if err != nil {
			s.ui.Notify(ctx, view.NewToast(err.Error()))
			return nil
		}
		return s.disp.Dispatch(ctx, "cart.decrement", func(ctx context.Context) error {
			return s.shop.DecrementLine(ctx, id)
		})
	case "remove":
		id, err := parseID(args)
		if err != nil {
			s.ui.Notify(ctx, view.NewToast(err.Error()))
			return nil
		}
		return s.disp.Dispatch(ctx, "cart.remove", func(ctx context.Context) error {
			return s.shop.RemoveLine(ctx, id)
		})
	case "clear":
		return s.disp.Dispatch(ctx, "cart.clear", s.shop.ClearCart)
	case "cart":
		return s.disp.Dispatch(ctx, "cart.open", s.shop.OpenCart)
	case "back":
		s.shop.CloseCart()
		return nil
	default:
		s.ui.Notify(ctx, view.NewToast(fmt.Sprintf("Unknown command %q, try help", cmd)))
		return nil
	}
}

// browse renders the product listing under the session's sticky filters,
// headed by a result count.
func (s *Session) browse(ctx context.Context) error {
	list, err := s.shop.Browse(ctx, s.filters)
	if err != nil {
		return err
	}

	label := "results"
	if len(list) == 1 {
		label = "result"
	}
	if err := s.ui.printf("%d %s\n", len(list), label); err != nil {
		return err
	}
	if len(list) == 0 {
		return s.ui.printf("no products match\n")
	}
	for _, p := range list {
		if err := s.ui.printf("#%d %s  %s  %s (%.1f)\n",
			p.ID, p.Title, view.FormatPrice(p.Price), p.Category, p.Rating); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) showProduct(ctx context.Context, id int64) error {
	p, err := s.shop.ViewProduct(ctx, id)
	if err != nil {
		s.ui.Notify(ctx, view.NewToast("Product not found"))
		return nil
	}
	return s.ui.printf("#%d %s\n%s\n%s  %s  rating %.1f\n",
		p.ID, p.Title, p.Description, view.FormatPrice(p.Price), p.Category, p.Rating)
}

func (s *Session) printHelp() error {
	return s.ui.printf(`commands:
  list                      show products under current filters
  search <text>             set search text (empty clears)
  category <name|all>       set category filter
  sort <recommended|price-ascending|price-descending>
  filter <expr>             set expression filter, e.g. price < 50
  categories                list catalog categories
  show <id>                 product detail
  open <id>                 go to product page
  add <id> [qty]            add to cart
  inc <id> / dec <id>       change line quantity
  remove <id>               remove line
  clear                     empty the cart
  cart / back               open or leave the cart page
  quit
`)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("expected a positive product id")
	}
	return id, nil
}

func parseIDQty(s string) (int64, int, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, 0, errors.New("expected a positive product id")
	}

	id, err := parseID(fields[0])
	if err != nil {
		return 0, 0, err
	}

	qty := 1
	if len(fields) > 1 {
		qty, err = strconv.Atoi(fields[1])
		if err != nil {
			return 0, 0, errors.New("expected a numeric quantity")
		}
		if qty < 1 {
			qty = 1
		}
	}
	return id, qty, nil
}

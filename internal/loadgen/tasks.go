package loadgen

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

// Products is the Online Boutique catalog browsed by simulated users.
var Products = []string{
	"0PUK6V6EV0",
	"1YMWWN1N4O",
	"2ZYFJ3GM2N",
	"66VCHSJNUP",
	"6E92ZMYYFZ",
	"9SIQT8TOJO",
	"L9ECAV7KIM",
	"LS4PSXUNUM",
	"OLJCESPC7Z",
}

// Currencies offered by the setCurrency task.
var Currencies = []string{"EUR", "USD", "JPY", "CAD", "GBP", "TRY"}

// Task is one weighted user action.
type Task struct {
	Name   string
	Weight int
	Run    func(ctx context.Context, u *User)
}

// DefaultTasks returns the storefront task mix. Browsing dominates; checkout
// is the rarest action.
func DefaultTasks() []Task {
	return []Task{
		{Name: "index", Weight: 1, Run: index},
		{Name: "setCurrency", Weight: 2, Run: setCurrency},
		{Name: "browseProduct", Weight: 10, Run: browseProduct},
		{Name: "addToCart", Weight: 2, Run: addToCart},
		{Name: "viewCart", Weight: 3, Run: viewCart},
		{Name: "checkout", Weight: 1, Run: checkout},
	}
}

func index(ctx context.Context, u *User) {
	u.Get(ctx, "/")
}

func setCurrency(ctx context.Context, u *User) {
	u.Post(ctx, "/setCurrency", url.Values{
		"currency_code": {Currencies[u.rng.IntN(len(Currencies))]},
	})
}

func browseProduct(ctx context.Context, u *User) {
	u.Get(ctx, "/product/"+u.randomProduct())
}

func viewCart(ctx context.Context, u *User) {
	u.Get(ctx, "/cart")
}

func addToCart(ctx context.Context, u *User) {
	product := u.randomProduct()
	u.Get(ctx, "/product/"+product)
	u.Post(ctx, "/cart", url.Values{
		"product_id": {product},
		"quantity":   {strconv.Itoa(1 + u.rng.IntN(10))},
	})
}

func checkout(ctx context.Context, u *User) {
	addToCart(ctx, u)
	u.Post(ctx, "/cart/checkout", checkoutForm(u))
}

// checkoutForm builds a checkout payload with fake customer and card data.
func checkoutForm(u *User) url.Values {
	f := u.faker
	nextYear := time.Now().Year() + 1

	return url.Values{
		"email":                        {f.Email()},
		"street_address":               {f.Street()},
		"zip_code":                     {f.Zip()},
		"city":                         {f.City()},
		"state":                        {f.StateAbr()},
		"country":                      {f.Country()},
		"credit_card_number":           {f.CreditCardNumber(&gofakeit.CreditCardOptions{Types: []string{"visa"}})},
		"credit_card_expiration_month": {strconv.Itoa(1 + u.rng.IntN(12))},
		"credit_card_expiration_year":  {strconv.Itoa(nextYear + u.rng.IntN(71))},
		"credit_card_cvv":              {strconv.Itoa(100 + u.rng.IntN(900))},
	}
}

// pickTask chooses a task with probability proportional to its weight.
// n must be drawn uniformly from [0, totalWeight(tasks)).
func pickTask(tasks []Task, n int) Task {
	for _, t := range tasks {
		if n < t.Weight {
			return t
		}
		n -= t.Weight
	}
	return tasks[len(tasks)-1]
}

func totalWeight(tasks []Task) int {
	total := 0
	for _, t := range tasks {
		if t.Weight > 0 {
			total += t.Weight
		}
	}
	return total
}

package catalog

// Default returns the demo product list the storefront ships with.
func Default() *Catalog {
	return New([]Product{
		{
			ID:    "1",
			Title: "Smartphone Plus",
			Price: 199,
			Image: "https://i.pinimg.com/1200x/71/e0/56/71e056cb3577ea325f9e3779bdafdda2.jpg",
		},
		{
			ID:    "2",
			Title: "Wireless Headphones",
			Price: 199,
			Image: "https://i.pinimg.com/736x/43/15/ae/4315ae69df9daa2550203db798b0d77f.jpg",
		},
		{
			ID:    "3",
			Title: "Smart Watch",
			Price: 299,
			Image: "https://i.pinimg.com/736x/d1/09/01/d109019339766e957c893c0918c88bf1.jpg",
		},
		{
			ID:    "4",
			Title: "Bluetooth Speaker",
			Price: 129,
			Image: "https://i.pinimg.com/736x/c6/a1/91/c6a191fa3511c9c36472eaccf5dc3276.jpg",
		},
	})
}

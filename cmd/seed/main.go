package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

// Утилита наполняет запущенный сервис демонстрационными данными через
// публичный HTTP API: несколько клиентов и каталог товаров.

type customerSeed struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Document string `json:"document"`
}

type productSeed struct {
	Name       string `json:"name"`
	SKU        string `json:"sku"`
	PriceMinor int64  `json:"price_minor"`
	StockQty   int32  `json:"stock_qty"`
	IsActive   bool   `json:"is_active"`
}

var customers = []customerSeed{
	{Name: "Ana Souza", Email: "ana.souza@example.com", Document: "12345678901"},
	{Name: "Bruno Lima", Email: "bruno.lima@example.com", Document: "98765432100"},
	{Name: "Farmácia Central LTDA", Email: "compras@farmaciacentral.example.com", Document: "12345678000199"},
}

var products = []productSeed{
	{Name: "Paracetamol 500mg", SKU: "MED-PARA-500", PriceMinor: 1250, StockQty: 200, IsActive: true},
	{Name: "Ibuprofeno 400mg", SKU: "MED-IBUP-400", PriceMinor: 1890, StockQty: 150, IsActive: true},
	{Name: "Vitamina C 1g", SKU: "SUP-VITC-1G", PriceMinor: 2990, StockQty: 80, IsActive: true},
	{Name: "Termômetro Digital", SKU: "EQP-TERM-DIG", PriceMinor: 4550, StockQty: 35, IsActive: true},
	{Name: "Máscara Cirúrgica (50un)", SKU: "EPI-MASC-50", PriceMinor: 3200, StockQty: 500, IsActive: true},
	{Name: "Álcool Gel 500ml", SKU: "HIG-ALCO-500", PriceMinor: 990, StockQty: 300, IsActive: true},
}

func main() {
	var baseURL string
	flag.StringVar(&baseURL, "addr", "http://localhost:8080", "HTTP API base URL")
	flag.Parse()
	baseURL = strings.TrimSuffix(baseURL, "/")

	client := &http.Client{Timeout: 10 * time.Second}

	for _, c := range customers {
		if err := post(client, baseURL+"/api/v1/customers", c); err != nil {
			fmt.Printf("customer %s: %v\n", c.Email, err)
			continue
		}
		fmt.Printf("customer %s created\n", c.Email)
	}

	for _, p := range products {
		if err := post(client, baseURL+"/api/v1/products", p); err != nil {
			fmt.Printf("product %s: %v\n", p.SKU, err)
			continue
		}
		fmt.Printf("product %s created\n", p.SKU)
	}
}

func post(client *http.Client, url string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	resp, err := client.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusConflict {
		return fmt.Errorf("already exists")
	}
	if resp.StatusCode != http.StatusCreated {
		var env struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&env)
		if env.Message == "" {
			env.Message = resp.Status
		}
		_, _ = fmt.Fprintf(os.Stderr, "unexpected response: %s\n", env.Message)
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return nil
}

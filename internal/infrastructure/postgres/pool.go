package postgres

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jhoicas/segvenc-api/pkg/config"
)

// NewPool abre el pool de conexiones y comprueba que la base responde.
// El tamaño lo decide quien llama: la API usa DB_MAX_CONNS y el worker config.DBConfig.ForWorker.
func NewPool(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	poolConfig, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}
	return pool, nil
}

func poolConfig(cfg config.DBConfig) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}

	// El hostname se conserva en el DSN para la verificación TLS; solo el dial va por IPv4.
	if cfg.ForceIPv4 {
		dialer := &net.Dialer{Timeout: 10 * time.Second}
		resolve := ipv4Resolver(cfg.FallbackDNS)
		poolConfig.ConnConfig.DialFunc = func(ctx context.Context, network, addr string) (net.Conn, error) {
			host, port, err := net.SplitHostPort(addr)
			if err != nil {
				return nil, err
			}
			ip, err := resolve(ctx, host)
			if err != nil {
				return dialer.DialContext(ctx, network, addr)
			}
			return dialer.DialContext(ctx, "tcp4", net.JoinHostPort(ip, port))
		}
	}

	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.MinConns >= 0 && cfg.MinConns <= int(poolConfig.MaxConns) {
		poolConfig.MinConns = int32(cfg.MinConns)
	}
	if cfg.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	poolConfig.HealthCheckPeriod = time.Minute

	// NUMERIC -> shopspring/decimal (valor de las suscripciones).
	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}
	return poolConfig, nil
}

// ipv4Resolver devuelve la primera IPv4 de host. Con fallbackDNS (host:puerto) se consulta ese
// servidor cuando el DNS local solo devuelve IPv6, caso habitual de Supabase dentro de Docker.
func ipv4Resolver(fallbackDNS string) func(ctx context.Context, host string) (string, error) {
	resolvers := []*net.Resolver{net.DefaultResolver}
	if fallbackDNS != "" {
		resolvers = append(resolvers, &net.Resolver{
			PreferGo: true,
			Dial: func(ctx context.Context, _, _ string) (net.Conn, error) {
				var d net.Dialer
				return d.DialContext(ctx, "udp", fallbackDNS)
			},
		})
	}
	return func(ctx context.Context, host string) (string, error) {
		if ip := net.ParseIP(host); ip != nil {
			if ip.To4() != nil {
				return host, nil
			}
			return "", fmt.Errorf("%s es IPv6", host)
		}
		var lastErr error
		for _, r := range resolvers {
			ips, err := r.LookupIP(ctx, "ip4", host)
			if err != nil {
				lastErr = err
				continue
			}
			if len(ips) > 0 {
				return ips[0].String(), nil
			}
		}
		if lastErr == nil {
			lastErr = fmt.Errorf("%s sin IPv4", host)
		}
		return "", lastErr
	}
}

// Package xpgx adds squirrel-aware helpers on top of a pgx connection pool.
package xpgx

import (
	"context"
	"fmt"
	"reflect"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/dbscan"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Queryx runs squirrel queries and scans rows into structs by their `db` tags.
type Queryx interface {
	Querier
	Getx(ctx context.Context, dst any, query sq.Sqlizer) error
	Selectx(ctx context.Context, dst any, query sq.Sqlizer) error
	Execx(ctx context.Context, query sq.Sqlizer) (pgconn.CommandTag, error)
}

type Pool interface {
	Queryx
	InTx(ctx context.Context, fn func(tx Queryx) error) error
	Ping(ctx context.Context) error
	Close()
}

// Result sets may carry columns the destination does not map, e.g. joined names.
var scanAPI = mustNewAPI()

func mustNewAPI() *pgxscan.API {
	dbscanAPI, err := pgxscan.NewDBScanAPI(dbscan.WithAllowUnknownColumns(true))
	if err != nil {
		panic(fmt.Errorf("pgxscan.NewDBScanAPI: %w", err))
	}
	api, err := pgxscan.NewAPI(dbscanAPI)
	if err != nil {
		panic(fmt.Errorf("pgxscan.NewAPI: %w", err))
	}
	return api
}

type queryx struct {
	Querier
}

type pool struct {
	queryx
	pgxPool *pgxpool.Pool
}

// NewPool opens a pool. Connections are established lazily and reused for the process lifetime.
func NewPool(ctx context.Context, dsn string, maxConns int32) (Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.ParseConfig: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}

	p, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.NewWithConfig: %w", err)
	}

	return &pool{queryx: queryx{p}, pgxPool: p}, nil
}

func (p *pool) Ping(ctx context.Context) error {
	return p.pgxPool.Ping(ctx)
}

func (p *pool) Close() {
	p.pgxPool.Close()
}

// InTx runs fn in a transaction that is committed when fn returns nil and rolled back otherwise.
func (p *pool) InTx(ctx context.Context, fn func(tx Queryx) error) error {
	return pgx.BeginFunc(ctx, p.pgxPool, func(tx pgx.Tx) error {
		return fn(queryx{tx})
	})
}

func (q queryx) Execx(ctx context.Context, query sq.Sqlizer) (pgconn.CommandTag, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return pgconn.CommandTag{}, fmt.Errorf("query.ToSql: %w", err)
	}
	return q.Exec(ctx, sql, args...)
}

// Getx scans the single row produced by query into dst. No row is pgx.ErrNoRows.
func (q queryx) Getx(ctx context.Context, dst any, query sq.Sqlizer) error {
	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("query.ToSql: %w", err)
	}
	if err = scanAPI.Get(ctx, q.Querier, dst, sql, args...); dbscan.NotFound(err) {
		return pgx.ErrNoRows
	}
	return err
}

// Selectx scans every row produced by query into the slice dst points to. An empty result
// leaves an empty, non-nil slice.
func (q queryx) Selectx(ctx context.Context, dst any, query sq.Sqlizer) error {
	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("query.ToSql: %w", err)
	}
	if err = scanAPI.Select(ctx, q.Querier, dst, sql, args...); err != nil {
		return err
	}

	if v := reflect.ValueOf(dst); v.Kind() == reflect.Pointer && v.Elem().Kind() == reflect.Slice && v.Elem().IsNil() {
		v.Elem().Set(reflect.MakeSlice(v.Elem().Type(), 0, 0))
	}
	return nil
}

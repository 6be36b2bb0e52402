package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Retail-api/internal/application/tenancy"
	"github.com/jhoicas/Retail-api/internal/domain/entity"
	"github.com/jhoicas/Retail-api/internal/domain/repository"
	"github.com/jhoicas/Retail-api/internal/infrastructure/cache"
	"github.com/jhoicas/Retail-api/internal/infrastructure/postgres"
)

type tenantOptions struct {
	id         int64
	name       string
	dsn        string
	gs1        string
	adminEmail string
	adminName  string
}

func tenantCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tenant",
		Short: "Administrar empresas del plano de control",
	}

	var opts tenantOptions
	create := &cobra.Command{
		Use:   "create",
		Short: "Dar de alta una empresa, su almacén y su primer administrador",
		RunE: func(cmd *cobra.Command, args []string) error {
			return createTenant(cmd, opts)
		},
	}
	f := create.Flags()
	f.Int64Var(&opts.id, "id", 0, "id de la empresa (único en el plano de control)")
	f.StringVar(&opts.name, "name", "", "nombre de la empresa")
	f.StringVar(&opts.dsn, "dsn", "", "DSN del almacén propio; vacío = almacén compartido")
	f.StringVar(&opts.gs1, "gs1", "", "identificador GS1 de la empresa")
	f.StringVar(&opts.adminEmail, "admin-email", "", "email del primer administrador")
	f.StringVar(&opts.adminName, "admin-name", "Administrador", "nombre del primer administrador")
	_ = create.MarkFlagRequired("id")
	_ = create.MarkFlagRequired("name")
	cmd.AddCommand(create)

	return cmd
}

func createTenant(cmd *cobra.Command, opts tenantOptions) error {
	ctx := cmd.Context()
	if err := postgres.MigrateControl(cfg.DB.ConnectionString()); err != nil {
		return err
	}
	pool, err := postgres.NewPool(ctx, cfg.DB.ConnectionString(), postgres.ControlPoolOptions)
	if err != nil {
		return err
	}
	defer pool.Close()

	dir := postgres.NewDirectory(pool)
	stores := postgres.NewStoreRegistry(cfg.Tenancy.SharedDSN, false, log)
	defer stores.Close()

	company := entity.Company{ID: opts.id, Name: opts.name, GS1CompanyID: opts.gs1}
	if err := postgres.ProvisionTenant(ctx, dir, stores, company, opts.dsn); err != nil {
		return fmt.Errorf("alta de empresa: %w", err)
	}
	log.Info().Int64("company_id", opts.id).Str("name", opts.name).Msg("empresa registrada")

	store, err := stores.Open(ctx, entity.StoreLocation{CompanyID: opts.id, DSN: opts.dsn})
	if err != nil {
		return err
	}
	err = store.RunInTx(ctx, func(tx repository.Store) error {
		tm, err := tx.TypeMovements().GetByCompanyAndInitials(ctx, opts.id, entity.TypeMovementReturnsInitials)
		if err != nil {
			return err
		}
		if tm == nil {
			return tx.TypeMovements().Create(ctx, &entity.TypeMovement{
				CompanyID: opts.id,
				Name:      entity.TypeMovementReturns,
				Initials:  entity.TypeMovementReturnsInitials,
			})
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("tipo de movimiento de devoluciones: %w", err)
	}

	if opts.adminEmail == "" {
		return nil
	}
	bindings, closeCache, err := operatorCache(ctx)
	if err != nil {
		return err
	}
	defer closeCache()
	resolver := tenancy.NewResolver(dir, bindings, stores, log)

	admin, err := registerAdmin(ctx, store, resolver, opts.id, opts.adminEmail, opts.adminName)
	if err != nil {
		return fmt.Errorf("registrar administrador: %w", err)
	}
	log.Info().Int64("company_id", opts.id).Str("email", admin.Email).Msg("administrador registrado")
	return nil
}

// operatorCache devuelve la caché de bindings que comparten las réplicas de la API, para que el
// alta invalide lo que ya tengan guardado. Sin Redis cada réplica expira su caché local por TTL.
func operatorCache(ctx context.Context) (tenancy.BindingCache, func(), error) {
	if !cfg.Redis.Enabled {
		return tenancy.NopCache{}, func() {}, nil
	}
	rdb, err := cache.NewRedis(ctx, cfg.Redis.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("redis: %w", err)
	}
	return cache.NewRedisBindingCache(rdb, cfg.Tenancy.CacheTTL), func() { _ = rdb.Close() }, nil
}

// registerAdmin crea el administrador en el almacén de la empresa si no existe y lo publica en el
// directorio. Si el directorio rechaza el email se borra el usuario recién creado.
func registerAdmin(ctx context.Context, store repository.Store, resolver *tenancy.Resolver, companyID int64, email, name string) (*entity.User, error) {
	email = tenancy.NormalizeEmail(email)
	admin, err := store.Users().GetByEmailAndCompany(ctx, email, companyID)
	if err != nil {
		return nil, err
	}
	created := false
	if admin == nil {
		admin = &entity.User{CompanyID: companyID, Name: name, Email: email, Role: entity.RoleAdmin}
		if err := store.Users().Create(ctx, admin); err != nil {
			return nil, fmt.Errorf("crear administrador: %w", err)
		}
		created = true
	}
	err = resolver.Register(ctx, entity.TenantBinding{
		Email:     email,
		UserID:    admin.ID,
		CompanyID: companyID,
		Role:      entity.RoleAdmin,
	})
	if err != nil {
		if created {
			if derr := store.Users().Delete(ctx, admin.ID, companyID); derr != nil {
				log.Error().Err(derr).Int64("user_id", admin.ID).Msg("no se pudo borrar el administrador")
			}
		}
		return nil, err
	}
	return admin, nil
}

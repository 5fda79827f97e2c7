package cmd

import (
	"context"
	"fmt"
	"log"
	"reflect"
	"time"

	"github.com/fotonatura/portfolio-api/database/models"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Database migration tools",
	Long:  `Migrate data from one database to another (e.g., SQLite to PostgreSQL).`,
}

var migrateRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run database migration",
	Long: `Run database migration from source to target database.

Examples:
  # Migrate from SQLite to PostgreSQL
  portfolio-api migrate run --from-sqlite ./data/portfolio.db --to-postgres "host=localhost user=postgres password=secret dbname=portfolio port=5432"

  # Stop on conflict
  portfolio-api migrate run --from-sqlite ./data/portfolio.db --to-postgres "..." --on-conflict=error`,
	Run: func(cmd *cobra.Command, args []string) {
		fromType, _ := cmd.Flags().GetString("from-type")
		toType, _ := cmd.Flags().GetString("to-type")
		fromDSN, _ := cmd.Flags().GetString("from-dsn")
		toDSN, _ := cmd.Flags().GetString("to-dsn")
		fromSQLite, _ := cmd.Flags().GetString("from-sqlite")
		toPostgres, _ := cmd.Flags().GetString("to-postgres")
		skipConfirm, _ := cmd.Flags().GetBool("yes")
		onConflict, _ := cmd.Flags().GetString("on-conflict")

		if err := runMigration(fromType, toType, fromDSN, toDSN, fromSQLite, toPostgres, skipConfirm, onConflict); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateRunCmd)

	migrateRunCmd.Flags().String("from-type", "", "Source database type (sqlite, postgres)")
	migrateRunCmd.Flags().String("to-type", "", "Target database type (sqlite, postgres)")
	migrateRunCmd.Flags().String("from-dsn", "", "Source database DSN/connection string")
	migrateRunCmd.Flags().String("to-dsn", "", "Target database DSN/connection string")
	migrateRunCmd.Flags().String("from-sqlite", "", "Source SQLite file path (shortcut)")
	migrateRunCmd.Flags().String("to-postgres", "", "Target PostgreSQL connection string (shortcut)")
	migrateRunCmd.Flags().Bool("yes", false, "Skip confirmation prompt")
	migrateRunCmd.Flags().String("on-conflict", "skip", "Conflict resolution strategy: skip (default), error")
}

type migrateStats struct {
	users         int
	posts         int
	comments      int
	galleries     int
	galleryImages int
	skipped       int
	errors        []string
}

func runMigration(fromType, toType, fromDSN, toDSN, fromSQLite, toPostgres string, skipConfirm bool, onConflict string) error {
	if onConflict != "skip" && onConflict != "error" {
		return fmt.Errorf("invalid on-conflict strategy: %s (must be skip or error)", onConflict)
	}

	if fromSQLite != "" {
		fromType = "sqlite"
		fromDSN = fromSQLite
	}
	if toPostgres != "" {
		toType = "postgres"
		toDSN = toPostgres
	}

	if fromType == "" || toType == "" {
		return fmt.Errorf("both --from-type and --to-type are required")
	}
	if fromDSN == "" || toDSN == "" {
		return fmt.Errorf("both --from-dsn and --to-dsn (or shortcuts) are required")
	}
	if fromType == toType && fromDSN == toDSN {
		return fmt.Errorf("source and target databases are the same")
	}

	log.Printf("Migrating from %s to %s", fromType, toType)
	log.Printf("Source: %s", maskDSN(fromDSN))
	log.Printf("Target: %s", maskDSN(toDSN))
	log.Printf("Conflict strategy: %s", onConflict)

	sourceDB, err := openDatabase(fromType, fromDSN)
	if err != nil {
		return fmt.Errorf("failed to connect to source database: %w", err)
	}
	sqlDB, _ := sourceDB.DB()
	defer sqlDB.Close()

	targetDB, err := openDatabase(toType, toDSN)
	if err != nil {
		return fmt.Errorf("failed to connect to target database: %w", err)
	}
	sqlDB2, _ := targetDB.DB()
	defer sqlDB2.Close()

	if !skipConfirm {
		fmt.Println("\nWarning: This will migrate all data from source to target database.")
		fmt.Printf("Conflict resolution strategy: %s\n", onConflict)
		fmt.Print("Do you want to continue? [y/N]: ")
		var response string
		fmt.Scanln(&response)
		if response != "y" && response != "Y" {
			fmt.Println("Migration cancelled.")
			return nil
		}
	}

	stats := &migrateStats{}

	log.Println("Migrating database schema...")
	if err := targetDB.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Gallery{},
		&models.GalleryImage{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	ctx := context.Background()

	// Tables ordered so foreign key targets land before their referents
	log.Println("Migrating users...")
	if err := migrateTable(ctx, sourceDB, targetDB, &[]models.User{}, stats, &stats.users, onConflict); err != nil {
		return err
	}

	log.Println("Migrating posts...")
	if err := migrateTable(ctx, sourceDB, targetDB, &[]models.Post{}, stats, &stats.posts, onConflict); err != nil {
		return err
	}

	log.Println("Migrating comments...")
	if err := migrateTable(ctx, sourceDB, targetDB, &[]models.Comment{}, stats, &stats.comments, onConflict); err != nil {
		return err
	}

	log.Println("Migrating galleries...")
	if err := migrateTable(ctx, sourceDB, targetDB, &[]models.Gallery{}, stats, &stats.galleries, onConflict); err != nil {
		return err
	}

	log.Println("Migrating gallery images...")
	if err := migrateTable(ctx, sourceDB, targetDB, &[]models.GalleryImage{}, stats, &stats.galleryImages, onConflict); err != nil {
		return err
	}

	printMigrateStats(stats)

	if len(stats.errors) > 0 {
		return fmt.Errorf("migration completed with %d errors", len(stats.errors))
	}

	log.Println("Migration completed successfully!")
	return nil
}

func openDatabase(dbType, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch dbType {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres", "postgresql":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", dbType)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

// migrateTable copies all rows of one table. rows must be a pointer to a
// slice of the model type; migrated counts rows actually written.
func migrateTable[T any](ctx context.Context, sourceDB, targetDB *gorm.DB, rows *[]T, stats *migrateStats, migrated *int, onConflict string) error {
	if err := sourceDB.WithContext(ctx).Unscoped().Find(rows).Error; err != nil {
		return err
	}

	for i := range *rows {
		row := &(*rows)[i]

		var count int64
		if err := targetDB.WithContext(ctx).Model(new(T)).Unscoped().Where("id = ?", primaryKeyOf(targetDB, row)).Count(&count).Error; err != nil {
			stats.errors = append(stats.errors, fmt.Sprintf("conflict check failed: %v", err))
			if onConflict == "error" {
				return err
			}
			continue
		}

		if count > 0 {
			if onConflict == "error" {
				return fmt.Errorf("record already exists in target database")
			}
			stats.skipped++
			continue
		}

		if err := targetDB.WithContext(ctx).Create(row).Error; err != nil {
			stats.errors = append(stats.errors, fmt.Sprintf("failed to migrate row: %v", err))
			continue
		}
		*migrated++
	}

	return nil
}

// primaryKeyOf reads the ID column through gorm's statement parser so
// migrateTable stays model agnostic
func primaryKeyOf(db *gorm.DB, row interface{}) interface{} {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(row); err != nil {
		return 0
	}
	field := stmt.Schema.LookUpField("ID")
	if field == nil {
		return 0
	}
	value, _ := field.ValueOf(context.Background(), reflect.ValueOf(row))
	return value
}

// maskDSN keeps credentials out of the logs
func maskDSN(dsn string) string {
	if len(dsn) > 50 {
		return dsn[:50] + "..."
	}
	return dsn
}

func printMigrateStats(stats *migrateStats) {
	fmt.Println()
	fmt.Println("========================================")
	fmt.Println("       Migration Statistics")
	fmt.Println("========================================")
	fmt.Printf("Users migrated:          %d\n", stats.users)
	fmt.Printf("Posts migrated:          %d\n", stats.posts)
	fmt.Printf("Comments migrated:       %d\n", stats.comments)
	fmt.Printf("Galleries migrated:      %d\n", stats.galleries)
	fmt.Printf("Gallery images migrated: %d\n", stats.galleryImages)
	fmt.Printf("Skipped records:         %d\n", stats.skipped)
	fmt.Println("========================================")

	if len(stats.errors) > 0 {
		fmt.Println("\nErrors encountered:")
		for _, err := range stats.errors {
			fmt.Printf("  - %s\n", err)
		}
	}
}

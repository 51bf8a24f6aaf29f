// absensictl: perintah operasional (seed admin, sweep manual, export rekap) tanpa lewat HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"absensi_backend/internals/configs"
	"absensi_backend/internals/constants"
	database "absensi_backend/internals/databases"
	"absensi_backend/internals/features/attendances/sessions/dto"
	"absensi_backend/internals/features/attendances/sessions/export"
	attendanceRoute "absensi_backend/internals/features/attendances/sessions/route"
	"absensi_backend/internals/features/attendances/sessions/service"
	authService "absensi_backend/internals/features/users/auth/service"
	employeeModel "absensi_backend/internals/features/users/employees/model"
	employeeRepo "absensi_backend/internals/features/users/employees/repository"
	employeeSeeds "absensi_backend/internals/seeds/employees"
)

func main() {
	configs.LoadEnv()
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "absensictl",
		Short:         "Perintah operasional backend absensi",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newMigrateCmd(), newSeedAdminCmd(), newSeedEmployeesCmd(), newSweepCmd(), newExportCmd())
	return root
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Jalankan AutoMigrate untuk semua tabel",
		RunE: func(cmd *cobra.Command, args []string) error {
			db := configs.InitCLIDB()
			if err := database.AutoMigrate(db); err != nil {
				return fmt.Errorf("automigrate: %w", err)
			}
			log.Println("✅ migrate selesai")
			return nil
		},
	}
}

func newSeedAdminCmd() *cobra.Command {
	var email, password, name, username string
	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Buat (atau reset) akun admin",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := authService.ValidatePassword(password); err != nil {
				return err
			}
			if username == "" {
				username = strings.Split(email, "@")[0]
			}
			db := configs.InitCLIDB()
			user, created, err := seedAdmin(cmd.Context(), db, email, password, name, username)
			if err != nil {
				return err
			}
			if created {
				log.Printf("✅ admin dibuat: %s (%s)", user.Email, user.ID)
			} else {
				log.Printf("✅ admin di-reset: %s (%s)", user.Email, user.ID)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Email admin")
	cmd.Flags().StringVar(&password, "password", "", "Password (min 8, huruf + angka)")
	cmd.Flags().StringVar(&name, "name", "Administrator", "Nama lengkap")
	cmd.Flags().StringVar(&username, "username", "", "user_name (default: bagian depan email)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

// seedAdmin: idempotent. Email yang sudah ada dijadikan admin aktif dengan password baru.
func seedAdmin(ctx context.Context, db *gorm.DB, email, password, name, username string) (*employeeModel.UserModel, bool, error) {
	hash, err := authService.HashPassword(password)
	if err != nil {
		return nil, false, err
	}
	email = strings.ToLower(strings.TrimSpace(email))

	var user employeeModel.UserModel
	err = db.WithContext(ctx).Where("LOWER(email) = ?", email).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = employeeModel.UserModel{
			UserName: strings.ToLower(strings.TrimSpace(username)),
			FullName: strings.TrimSpace(name),
			Email:    email,
			Password: hash,
			Role:     constants.RoleAdmin,
			IsActive: true,
		}
		if err := db.WithContext(ctx).Create(&user).Error; err != nil {
			return nil, false, fmt.Errorf("create admin: %w", err)
		}
		return &user, true, nil
	case err != nil:
		return nil, false, err
	}

	if err := db.WithContext(ctx).Model(&user).Updates(map[string]any{
		"password":  hash,
		"role":      constants.RoleAdmin,
		"is_active": true,
	}).Error; err != nil {
		return nil, false, fmt.Errorf("reset admin: %w", err)
	}
	return &user, false, nil
}

func newSeedEmployeesCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed-employees",
		Short: "Import karyawan dari file JSON (email yang sudah ada dilewati)",
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := employeeSeeds.SeedEmployeesFromJSON(cmd.Context(), configs.InitCLIDB(), file)
			log.Printf("[SEED] %d karyawan baru", n)
			return err
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "File JSON array karyawan")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newSweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Tutup semua sesi open dari tanggal kerja sebelumnya",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := attendanceRoute.BuildAttendanceService(configs.InitCLIDB())
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
			defer cancel()
			n, err := svc.SweepStale(ctx)
			log.Printf("[SWEEP] %d sesi ditutup", n)
			return err
		},
	}
}

func newExportCmd() *cobra.Command {
	var month, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export rekap bulanan ke file xlsx",
		RunE: func(cmd *cobra.Command, args []string) error {
			db := configs.InitCLIDB()
			svc := attendanceRoute.BuildAttendanceService(db)

			q := dto.MonthQuery{Month: month}
			from, to, err := q.Range(svc.Now())
			if err != nil {
				return fmt.Errorf("--month harus YYYY-MM: %w", err)
			}
			if out == "" {
				out = "rekap-absensi-" + q.Month + ".xlsx"
			}

			ctx := cmd.Context()
			dir := employeeRepo.NewDirectory(db)
			recaps, err := export.BuildRecap(ctx, svc, dir, from, to, nil)
			if err != nil {
				return err
			}
			rows, _, err := svc.ListSessions(ctx, service.RangeFilter{From: from, To: to})
			if err != nil {
				return err
			}

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			defer f.Close()
			if err := export.WriteRecapWorkbook(f, q.Month, recaps, export.WithNames(ctx, dir, dto.FromModels(rows))); err != nil {
				return err
			}
			log.Printf("✅ rekap %s (%d karyawan, %d sesi) → %s", q.Month, len(recaps), len(rows), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "Bulan YYYY-MM (default bulan berjalan)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "File output (default rekap-absensi-<month>.xlsx)")
	return cmd
}

package orchestration_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/imamik/flexprov/internal/config"
	"github.com/imamik/flexprov/internal/events"
	"github.com/imamik/flexprov/internal/orchestration"
	"github.com/imamik/flexprov/internal/platform/s3"
	"github.com/imamik/flexprov/internal/provider"
	"github.com/imamik/flexprov/internal/provider/fake"
	"github.com/imamik/flexprov/internal/util/async"
)

const scenarioConfig = `
system: FlexSystem
configuration: TEST
resources:
  cloud_services:
    - name: Frontend
      vip_swap: true
      delete_staging: true
    - name: Backend
  storage_containers:
    - name: Documents
      account_sku: Standard_LRS
  sql_databases:
    - name: Ledger
      sku: S0
  service_bus_namespaces:
    - name: Events
  web_sites:
    - name: Portal
      plan_sku: S1
    - name: Admin
      plan_sku: S1
  reserved_ips:
    - name: Gateway
  virtual_machines: [flex-vm-1, flex-vm-2]
`

// memStore is an in-memory object store.
type memStore struct {
	mu      sync.Mutex
	buckets map[string]bool
	objects map[string][]byte
	putErr  error
}

func newMemStore() *memStore {
	return &memStore{buckets: map[string]bool{}, objects: map[string][]byte{}}
}

func (m *memStore) BucketExists(_ context.Context, bucket string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.buckets[bucket], nil
}

func (m *memStore) CreateBucket(_ context.Context, bucket string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.buckets[bucket] = true
	return nil
}

func (m *memStore) PutObject(_ context.Context, bucket, key, _ string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return m.putErr
	}
	m.objects[bucket+"/"+key] = data
	return nil
}

func (m *memStore) object(bucket, key string) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.objects[bucket+"/"+key]
}

func messages(report orchestration.Report, kind events.Kind) []string {
	var out []string
	for _, e := range report.Events {
		if e.Kind == kind {
			out = append(out, e.Message)
		}
	}
	return out
}

var _ = Describe("Orchestration", func() {
	var (
		ctx     context.Context
		cloud   *fake.Cloud
		secrets config.Secrets
		rt      *config.Runtime
	)

	newRuntime := func() *config.Runtime {
		cfg, err := config.Parse([]byte(scenarioConfig))
		Expect(err).NotTo(HaveOccurred())
		r, err := config.NewRuntime(cfg,
			config.WithCloud(cloud),
			config.WithSecrets(secrets),
			config.WithTimeouts(&config.Timeouts{
				VMPollInterval:          time.Millisecond,
				NamespaceDeleteAttempts: 3,
				NamespaceDeleteDelay:    time.Millisecond,
			}))
		Expect(err).NotTo(HaveOccurred())
		return r
	}

	BeforeEach(func() {
		ctx = context.Background()
		cloud = fake.New()
		secrets = config.Secrets{SaUser: "sa", SaPwd: "sa-secret", AppUser: "app", AppPwd: "app-secret"}
		rt = newRuntime()
	})

	Describe("PushConfiguration", func() {
		It("creates every configured resource and its parents", func() {
			report := orchestration.PushConfiguration(ctx, rt)

			Expect(report.Err).NotTo(HaveOccurred())
			Expect(report.RunID).NotTo(BeEmpty())
			Expect(cloud.Resources(provider.KindStorageAccount)).To(HaveLen(1))
			Expect(cloud.Resources(provider.KindSQLServer)).To(HaveLen(1))
			Expect(cloud.Resources(provider.KindHostingPlan)).To(HaveLen(1))
			Expect(cloud.Resources(provider.KindWebSite)).To(HaveLen(2))
			Expect(cloud.Resources(provider.KindReservedIP)).To(HaveLen(1))
			Expect(report.Created).To(HaveLen(9))
			Expect(messages(report, events.KindInformation)).To(ContainElement(
				"Push complete: 9 resources, 9 created, 0 already present"))
		})

		It("finds everything on a second run", func() {
			Expect(orchestration.PushConfiguration(ctx, rt).Err).NotTo(HaveOccurred())

			report := orchestration.PushConfiguration(ctx, rt)

			Expect(report.Err).NotTo(HaveOccurred())
			Expect(report.Created).To(BeEmpty())
			Expect(cloud.Calls("CreateHostingPlan")).To(Equal(1))
			Expect(cloud.Calls("CreateSQLServer")).To(Equal(1))
		})

		It("shares one storage account and one SQL server on a first run", func() {
			cfg, err := config.Parse([]byte(`
system: FlexSystem
configuration: TEST
resources:
  storage_containers:
    - name: Documents
      account_sku: Standard_LRS
    - name: Invoices
      account_sku: Standard_LRS
  sql_databases:
    - name: Ledger
    - name: Audit
`))
			Expect(err).NotTo(HaveOccurred())
			rt, err = config.NewRuntime(cfg,
				config.WithCloud(cloud),
				config.WithSecrets(secrets),
				config.WithTimeouts(&config.Timeouts{VMPollInterval: time.Millisecond, NamespaceDeleteAttempts: 1}))
			Expect(err).NotTo(HaveOccurred())

			report := orchestration.PushConfiguration(ctx, rt)

			Expect(report.Err).NotTo(HaveOccurred())
			Expect(cloud.Resources(provider.KindStorageAccount)).To(HaveLen(1))
			Expect(cloud.Resources(provider.KindSQLServer)).To(HaveLen(1))
			Expect(cloud.Calls("CreateStorageAccount")).To(Equal(1))
			Expect(cloud.Calls("CreateSQLServer")).To(Equal(1))
			Expect(cloud.Resources(provider.KindStorageContainer)).To(HaveLen(2))
			Expect(cloud.Resources(provider.KindSQLDatabase)).To(HaveLen(2))
		})

		It("delivers events in publication order", func() {
			report := orchestration.PushConfiguration(ctx, rt)

			name := rt.Name(provider.KindServiceBusNamespace, "Events")
			var phases []events.Phase
			for _, e := range report.Events {
				Expect(e.RunID).To(Equal(report.RunID))
				if e.Resource == name {
					phases = append(phases, e.Phase)
				}
			}
			Expect(phases).To(Equal([]events.Phase{events.PhaseCheckIfExists, events.PhaseProvision}))
		})

		It("reports every failed unit and still runs the others", func() {
			secrets = config.Secrets{}
			rt = newRuntime()
			boom := errors.New("address pool exhausted")
			cloud.Fail("CreateReservedIP", "", boom)

			report := orchestration.PushConfiguration(ctx, rt)

			var batch *async.BatchError
			Expect(errors.As(report.Err, &batch)).To(BeTrue())
			Expect(batch.Names()).To(ConsistOf("SqlDatabase Ledger", "ReservedIp Gateway"))
			Expect(report.Err).To(MatchError(boom))
			Expect(config.IsConfigurationError(report.Err)).To(BeTrue())
			Expect(cloud.Resources(provider.KindWebSite)).To(HaveLen(2))
			Expect(messages(report, events.KindError)).To(HaveLen(2))
		})

		It("renders events on the console without key material", func() {
			var out bytes.Buffer

			report := orchestration.PushConfiguration(ctx, rt, orchestration.WithConsole(events.NewConsole(&out)))

			Expect(report.Err).NotTo(HaveOccurred())
			Expect(out.String()).To(ContainSubstring("Connection string for"))
			Expect(out.String()).To(ContainSubstring("Push complete"))
			Expect(out.String()).NotTo(ContainSubstring("app-secret"))
		})

		It("counts events and reconciliations", func() {
			report := orchestration.PushConfiguration(ctx, rt)
			Expect(report.Err).NotTo(HaveOccurred())

			n, err := testutil.GatherAndCount(rt.Metrics.Registry(), "flexprov_events_total", "flexprov_reconcile_total")
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(BeNumerically(">", 0))
		})
	})

	Describe("archiving", func() {
		var store *memStore

		BeforeEach(func() {
			store = newMemStore()
		})

		It("uploads the run journal", func() {
			archive := s3.NewArchive(store, "flex-runs", "runs", rt.Metrics)

			report := orchestration.PushConfiguration(ctx, rt, orchestration.WithArchive(archive))

			Expect(report.Err).NotTo(HaveOccurred())
			Expect(report.ArchiveKey).To(Equal("runs/" + report.RunID + ".jsonl"))
			journal := store.object("flex-runs", report.ArchiveKey)
			Expect(strings.Count(string(journal), "\n")).To(Equal(len(report.Events)))
			Expect(string(journal)).NotTo(ContainSubstring("app-secret"))
		})

		It("does not fail the run when the upload fails", func() {
			store.putErr = errors.New("access denied")
			archive := s3.NewArchive(store, "flex-runs", "runs", rt.Metrics)

			report := orchestration.PushConfiguration(ctx, rt, orchestration.WithArchive(archive))

			Expect(report.Err).NotTo(HaveOccurred())
			Expect(report.ArchiveKey).To(BeEmpty())
		})
	})

	Describe("PushCloudServices", func() {
		It("ensures the services and records deployment switches", func() {
			report := orchestration.PushCloudServices(ctx, rt, nil)

			Expect(report.Err).NotTo(HaveOccurred())
			Expect(cloud.Resources(provider.KindCloudService)).To(HaveLen(2))
			info := messages(report, events.KindInformation)
			frontend := rt.Name(provider.KindCloudService, "Frontend")
			Expect(info).To(ContainElement("VIP swap requested for " + frontend))
			Expect(info).To(ContainElement("Staging deployment of " + frontend + " scheduled for deletion"))
		})

		It("restricts the run to the named services", func() {
			report := orchestration.PushCloudServices(ctx, rt, []string{"backend"})

			Expect(report.Err).NotTo(HaveOccurred())
			services := cloud.Resources(provider.KindCloudService)
			Expect(services).To(HaveLen(1))
			Expect(services[0].Name).To(Equal(rt.Name(provider.KindCloudService, "Backend")))
		})

		It("rejects unknown services before running", func() {
			report := orchestration.PushCloudServices(ctx, rt, []string{"Nope"})

			Expect(config.IsConfigurationError(report.Err)).To(BeTrue())
			Expect(report.RunID).To(BeEmpty())
			Expect(cloud.Calls("GetCloudService")).To(BeZero())
		})
	})

	Describe("virtual machines", func() {
		BeforeEach(func() {
			cloud.AddVM("flex-vm-1", "Standard_B2s", provider.StateRunning)
			cloud.AddVM("flex-vm-2", "Standard_B2s", provider.StateDeallocated)
		})

		It("resizes the configured VMs", func() {
			report := orchestration.ResizeVMs(ctx, rt, nil, "Standard_D2s_v5")

			Expect(report.Err).NotTo(HaveOccurred())
			for _, vm := range cloud.Resources(provider.KindVirtualMachine) {
				Expect(vm.SKU).To(Equal("Standard_D2s_v5"))
				Expect(vm.State).To(Equal(provider.StateRunning))
			}
		})

		It("requires a size", func() {
			report := orchestration.ResizeVMs(ctx, rt, nil, " ")

			Expect(config.IsConfigurationError(report.Err)).To(BeTrue())
		})

		It("stops only the named VMs", func() {
			report := orchestration.StopVMs(ctx, rt, []string{"flex-vm-1"})

			Expect(report.Err).NotTo(HaveOccurred())
			Expect(cloud.Calls("DeallocateVM")).To(Equal(1))
		})
	})

	Describe("DeleteNamespace", func() {
		It("resolves a configured logical name", func() {
			name := rt.Name(provider.KindServiceBusNamespace, "Events")
			cloud.Seed(&provider.Resource{Kind: provider.KindServiceBusNamespace, Name: name})

			report := orchestration.DeleteNamespace(ctx, rt, "events", false)

			Expect(report.Err).NotTo(HaveOccurred())
			Expect(cloud.Resources(provider.KindServiceBusNamespace)).To(BeEmpty())
		})

		It("tolerates a missing namespace when forced", func() {
			report := orchestration.DeleteNamespace(ctx, rt, "flex-gone-test", true)

			Expect(report.Err).NotTo(HaveOccurred())
			Expect(messages(report, events.KindWarning)).To(HaveLen(1))
		})

		It("fails on a missing namespace without force", func() {
			report := orchestration.DeleteNamespace(ctx, rt, "flex-gone-test", false)

			Expect(provider.IsNotFound(report.Err)).To(BeTrue())
		})
	})
})
